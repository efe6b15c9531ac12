package reference_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmorate/internal/core/reference"
	"github.com/taibuivan/filmorate/internal/platform/apperr"
)

// unreachableClient points at a closed port so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

/*
TestCachedRepository_FallsThroughWhenRedisDown verifies that a broken cache never
fails a lookup.
*/
func TestCachedRepository_FallsThroughWhenRedisDown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repository := reference.NewCachedRepository(reference.NewMemoryRepository(), unreachableClient(t), time.Minute, logger)
	context := context.Background()

	genres, err := repository.ListGenres(context)
	require.NoError(t, err)
	assert.Len(t, genres, len(reference.DefaultGenres))

	rating, err := repository.GetMpa(context, 4)
	require.NoError(t, err)
	assert.Equal(t, "R", rating.Name)

	_, err = repository.GetGenre(context, 42)
	assert.True(t, apperr.IsNotFound(err))
}

// countingRepository records how often each lookup reaches the source.
type countingRepository struct {
	reference.Repository
	calls map[string]int
}

func newCountingRepository() *countingRepository {
	return &countingRepository{Repository: reference.NewMemoryRepository(), calls: map[string]int{}}
}

func (repository *countingRepository) ListGenres(context context.Context) ([]reference.Genre, error) {
	repository.calls["list_genres"]++
	return repository.Repository.ListGenres(context)
}

func (repository *countingRepository) GetGenre(context context.Context, id int64) (reference.Genre, error) {
	repository.calls["get_genre"]++
	return repository.Repository.GetGenre(context, id)
}

func (repository *countingRepository) GetMpa(context context.Context, id int64) (reference.Mpa, error) {
	repository.calls["get_mpa"]++
	return repository.Repository.GetMpa(context, id)
}

// newCachedFixture starts an in-process Redis and wraps a counting source.
func newCachedFixture(t *testing.T, ttl time.Duration) (*reference.CachedRepository, *countingRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := newCountingRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return reference.NewCachedRepository(source, client, ttl, logger), source, server
}

/*
TestCachedRepository_ServesHitsFromRedis verifies populate then hit for single
values and lists, and that entries carry the configured TTL.
*/
func TestCachedRepository_ServesHitsFromRedis(t *testing.T) {
	repository, source, server := newCachedFixture(t, 10*time.Minute)
	context := context.Background()

	// 1. Miss populates the cache
	first, err := repository.GetGenre(context, 3)
	require.NoError(t, err)
	assert.Equal(t, reference.Genre{ID: 3, Name: "Мультфильм"}, first)
	assert.Equal(t, 1, source.calls["get_genre"])
	assert.True(t, server.Exists(reference.GenreKey(3)))
	assert.Equal(t, 10*time.Minute, server.TTL(reference.GenreKey(3)))

	// 2. Hit skips the source
	second, err := repository.GetGenre(context, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls["get_genre"])

	// 3. Lists round-trip through JSON
	genres, err := repository.ListGenres(context)
	require.NoError(t, err)
	cachedGenres, err := repository.ListGenres(context)
	require.NoError(t, err)
	assert.Equal(t, reference.DefaultGenres, cachedGenres)
	assert.Equal(t, genres, cachedGenres)
	assert.Equal(t, 1, source.calls["list_genres"])

	rating, err := repository.GetMpa(context, 5)
	require.NoError(t, err)
	cachedRating, err := repository.GetMpa(context, 5)
	require.NoError(t, err)
	assert.Equal(t, reference.Mpa{ID: 5, Name: "NC-17"}, cachedRating)
	assert.Equal(t, rating, cachedRating)
	assert.Equal(t, 1, source.calls["get_mpa"])

	// 4. Expiry sends the next read back to the source
	server.FastForward(11 * time.Minute)
	_, err = repository.GetGenre(context, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls["get_genre"])
}

/*
TestCachedRepository_DoesNotCacheMisses checks that unknown ids always reach the
source and leave no key behind.
*/
func TestCachedRepository_DoesNotCacheMisses(t *testing.T) {
	repository, source, server := newCachedFixture(t, time.Minute)
	context := context.Background()

	for i := 0; i < 2; i++ {
		_, err := repository.GetGenre(context, 42)
		assert.True(t, apperr.IsNotFound(err))
	}

	assert.Equal(t, 2, source.calls["get_genre"])
	assert.False(t, server.Exists(reference.GenreKey(42)))
}

/*
TestCachedRepository_IgnoresCorruptEntries verifies an undecodable entry falls
back to the source and is overwritten.
*/
func TestCachedRepository_IgnoresCorruptEntries(t *testing.T) {
	repository, source, server := newCachedFixture(t, time.Minute)

	require.NoError(t, server.Set(reference.MpaKey(1), "not json"))

	rating, err := repository.GetMpa(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "G", rating.Name)
	assert.Equal(t, 1, source.calls["get_mpa"])

	stored, err := server.Get(reference.MpaKey(1))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"G"}`, stored)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "filmorate:genre:all", reference.GenreListKey())
	assert.Equal(t, "filmorate:genre:7", reference.GenreKey(7))
	assert.Equal(t, "filmorate:mpa:all", reference.MpaListKey())
	assert.Equal(t, "filmorate:mpa:5", reference.MpaKey(5))
}
