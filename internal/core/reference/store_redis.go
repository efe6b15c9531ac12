// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/filmorate/internal/platform/constants"
)

// CachedRepository decorates a [Repository] with a Redis cache-aside layer.
//
// # Failure Mode
//
// Redis is an optimisation only. Any cache error is logged and the call falls
// through to the wrapped repository, so an unavailable Redis never fails a request.
// Only successful lookups are cached; unknown ids always reach the source.
type CachedRepository struct {
	next   Repository
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps next with a Redis cache whose entries expire after ttl.
func NewCachedRepository(next Repository, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// # Key Taxonomy

// GenreListKey is the cache key for the full genre list.
func GenreListKey() string { return constants.RedisPrefixGenre + "all" }

// GenreKey is the cache key for a single genre.
func GenreKey(id int64) string { return constants.RedisPrefixGenre + strconv.FormatInt(id, 10) }

// MpaListKey is the cache key for the full rating list.
func MpaListKey() string { return constants.RedisPrefixMpa + "all" }

// MpaKey is the cache key for a single rating.
func MpaKey(id int64) string { return constants.RedisPrefixMpa + strconv.FormatInt(id, 10) }

// # Repository Implementation

func (repository *CachedRepository) ListGenres(context context.Context) ([]Genre, error) {
	return cached(context, repository, GenreListKey(), func() ([]Genre, error) {
		return repository.next.ListGenres(context)
	})
}

func (repository *CachedRepository) GetGenre(context context.Context, id int64) (Genre, error) {
	return cached(context, repository, GenreKey(id), func() (Genre, error) {
		return repository.next.GetGenre(context, id)
	})
}

func (repository *CachedRepository) ListMpa(context context.Context) ([]Mpa, error) {
	return cached(context, repository, MpaListKey(), func() ([]Mpa, error) {
		return repository.next.ListMpa(context)
	})
}

func (repository *CachedRepository) GetMpa(context context.Context, id int64) (Mpa, error) {
	return cached(context, repository, MpaKey(id), func() (Mpa, error) {
		return repository.next.GetMpa(context, id)
	})
}

/*
cached reads key from Redis and falls back to load on a miss.

Parameters:
  - context: context.Context
  - repository: *CachedRepository (client, ttl, logger)
  - key: string
  - load: func() (T, error) (the source of truth)

Returns:
  - T: Cached or freshly loaded value
  - error: load's error; cache errors are swallowed
*/
func cached[T any](context context.Context, repository *CachedRepository, key string, load func() (T, error)) (T, error) {

	// Try the cache first
	payload, err := repository.client.Get(context, key).Bytes()
	switch {
	case err == nil:
		var value T
		if decodeErr := json.Unmarshal(payload, &value); decodeErr == nil {
			return value, nil
		}
		repository.logger.Warn("reference_cache_decode_failed", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		repository.logger.Warn("reference_cache_get_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	// Load from the source of truth
	value, err := load()
	if err != nil {
		return value, err
	}

	// Populate the cache, best effort
	encoded, err := json.Marshal(value)
	if err == nil {
		err = repository.client.Set(context, key, encoded, repository.ttl).Err()
	}
	if err != nil {
		repository.logger.Warn("reference_cache_set_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	return value, nil
}
