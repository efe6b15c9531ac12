package film_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmorate/internal/core/film"
	"github.com/taibuivan/filmorate/internal/core/reference"
	"github.com/taibuivan/filmorate/internal/core/user"
	"github.com/taibuivan/filmorate/internal/platform/apperr"
	"github.com/taibuivan/filmorate/pkg/date"
)

type fixture struct {
	films *film.Service
	users user.Repository
}

func newFixture() fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := user.NewMemoryRepository()
	repository := film.NewMemoryRepository(reference.NewMemoryRepository(), users)

	return fixture{
		films: film.NewService(repository, logger),
		users: users,
	}
}

func (f fixture) createUser(t *testing.T, login string) int64 {
	t.Helper()
	created, err := f.users.Create(context.Background(), &user.User{Email: login + "@example.com", Login: login, Name: login})
	require.NoError(t, err)
	return created.ID
}

func (f fixture) createFilm(t *testing.T, name string) *film.Film {
	t.Helper()
	created, err := f.films.Create(context.Background(), validFilm(name))
	require.NoError(t, err)
	return created
}

func validFilm(name string) *film.Film {
	return &film.Film{
		Name:        name,
		Description: "description",
		ReleaseDate: date.New(1990, time.January, 1),
		Duration:    100,
	}
}

/*
TestService_Create_Validation covers every field rule and its boundary.
*/
func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*film.Film)
		field  string
	}{
		{"name_blank", func(f *film.Film) { f.Name = "  " }, "name"},
		{"description_201", func(f *film.Film) { f.Description = strings.Repeat("a", 201) }, "description"},
		{"release_missing", func(f *film.Film) { f.ReleaseDate = date.Date{} }, "releaseDate"},
		{"release_1894", func(f *film.Film) { f.ReleaseDate = date.New(1894, time.December, 28) }, "releaseDate"},
		{"release_day_before", func(f *film.Film) { f.ReleaseDate = date.New(1895, time.December, 27) }, "releaseDate"},
		{"duration_zero", func(f *film.Film) { f.Duration = 0 }, "duration"},
		{"duration_negative", func(f *film.Film) { f.Duration = -1 }, "duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFixture()
			candidate := validFilm("Film")
			tt.mutate(candidate)

			_, err := fixture.films.Create(context.Background(), candidate)

			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestService_Create_Boundaries(t *testing.T) {
	fixture := newFixture()

	tests := []struct {
		name   string
		mutate func(*film.Film)
	}{
		{"description_200", func(f *film.Film) { f.Description = strings.Repeat("a", 200) }},
		{"description_200_cyrillic", func(f *film.Film) { f.Description = strings.Repeat("ж", 200) }},
		{"description_200_decomposed", func(f *film.Film) { f.Description = strings.Repeat("e\u0301", 200) }},
		{"description_empty", func(f *film.Film) { f.Description = "" }},
		{"release_first_screening", func(f *film.Film) { f.ReleaseDate = date.New(1895, time.December, 28) }},
		{"duration_one", func(f *film.Film) { f.Duration = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validFilm("Film")
			tt.mutate(candidate)

			_, err := fixture.films.Create(context.Background(), candidate)
			assert.NoError(t, err)
		})
	}
}

/*
TestService_Create_StoresComposedDescription checks that a decomposed description
is stored in NFC, so its stored length matches the validated length.
*/
func TestService_Create_StoresComposedDescription(t *testing.T) {
	fixture := newFixture()

	candidate := validFilm("Amélie")
	candidate.Description = strings.Repeat("e\u0301", 101)

	created, err := fixture.films.Create(context.Background(), candidate)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("\u00e9", 101), created.Description)
	assert.Equal(t, 101, utf8.RuneCountInString(created.Description))
}

/*
TestService_Create_References verifies rating and genre hydration, set semantics
and rejection of unknown ids.
*/
func TestService_Create_References(t *testing.T) {
	fixture := newFixture()
	context := context.Background()

	candidate := validFilm("With refs")
	candidate.Mpa = &reference.Mpa{ID: 3}
	candidate.Genres = []reference.Genre{{ID: 4}, {ID: 1}, {ID: 4}}

	created, err := fixture.films.Create(context, candidate)
	require.NoError(t, err)
	require.NotNil(t, created.Mpa)
	assert.Equal(t, "PG-13", created.Mpa.Name)
	assert.Equal(t, []reference.Genre{{ID: 1, Name: "Комедия"}, {ID: 4, Name: "Триллер"}}, created.Genres)
	assert.Equal(t, []int64{}, created.Likes)

	unknownMpa := validFilm("Bad mpa")
	unknownMpa.Mpa = &reference.Mpa{ID: 99}
	_, err = fixture.films.Create(context, unknownMpa)
	assert.True(t, apperr.IsNotFound(err))

	unknownGenre := validFilm("Bad genre")
	unknownGenre.Genres = []reference.Genre{{ID: 1}, {ID: 99}}
	_, err = fixture.films.Create(context, unknownGenre)
	assert.True(t, apperr.IsNotFound(err))

	all, err := fixture.films.FindAll(context)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_Create_IDsIncrease(t *testing.T) {
	fixture := newFixture()

	var previous int64
	for _, name := range []string{"a", "b", "c", "d"} {
		created := fixture.createFilm(t, name)
		assert.Greater(t, created.ID, previous)
		previous = created.ID
	}

	all, err := fixture.films.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, []int64{all[0].ID, all[1].ID, all[2].ID, all[3].ID})
}

/*
TestService_Update covers replacement, genre replacement and the
validation-before-existence ordering.
*/
func TestService_Update(t *testing.T) {
	fixture := newFixture()
	context := context.Background()

	original := validFilm("Original")
	original.Genres = []reference.Genre{{ID: 1}, {ID: 2}}
	created, err := fixture.films.Create(context, original)
	require.NoError(t, err)

	t.Run("replaces_fields_and_genres", func(t *testing.T) {
		replacement := validFilm("Renamed")
		replacement.ID = created.ID
		replacement.Mpa = &reference.Mpa{ID: 1}
		replacement.Genres = []reference.Genre{{ID: 6}}

		updated, err := fixture.films.Update(context, replacement)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "G", updated.Mpa.Name)
		assert.Equal(t, []reference.Genre{{ID: 6, Name: "Боевик"}}, updated.Genres)

		stored, err := fixture.films.FindByID(context, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("clears_genres", func(t *testing.T) {
		replacement := validFilm("No genres")
		replacement.ID = created.ID

		updated, err := fixture.films.Update(context, replacement)
		require.NoError(t, err)
		assert.Empty(t, updated.Genres)
		assert.Nil(t, updated.Mpa)
	})

	t.Run("keeps_likes", func(t *testing.T) {
		userID := fixture.createUser(t, "liker")
		require.NoError(t, fixture.films.AddLike(context, created.ID, userID))

		replacement := validFilm("Still liked")
		replacement.ID = created.ID

		updated, err := fixture.films.Update(context, replacement)
		require.NoError(t, err)
		assert.Equal(t, []int64{userID}, updated.Likes)
	})

	t.Run("unknown_id_not_found", func(t *testing.T) {
		replacement := validFilm("Ghost")
		replacement.ID = 9999

		_, err := fixture.films.Update(context, replacement)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("invalid_data_validation_for_any_id", func(t *testing.T) {
		for _, id := range []int64{created.ID, 9999} {
			replacement := validFilm("")
			replacement.ID = id

			_, err := fixture.films.Update(context, replacement)
			assert.True(t, apperr.IsValidation(err), "id %d", id)
		}
	})

	t.Run("missing_id_validation", func(t *testing.T) {
		_, err := fixture.films.Update(context, validFilm("No id"))
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("unknown_genre_leaves_film_unchanged", func(t *testing.T) {
		before, err := fixture.films.FindByID(context, created.ID)
		require.NoError(t, err)

		replacement := validFilm("Should not stick")
		replacement.ID = created.ID
		replacement.Genres = []reference.Genre{{ID: 99}}

		_, err = fixture.films.Update(context, replacement)
		assert.True(t, apperr.IsNotFound(err))

		after, err := fixture.films.FindByID(context, created.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

/*
TestService_Likes verifies idempotence, restoration of the count and the
existence checks on both ends.
*/
func TestService_Likes(t *testing.T) {
	fixture := newFixture()
	context := context.Background()

	movie := fixture.createFilm(t, "Liked")
	userID := fixture.createUser(t, "fan")

	before, err := fixture.films.FindByID(context, movie.ID)
	require.NoError(t, err)

	require.NoError(t, fixture.films.AddLike(context, movie.ID, userID))
	require.NoError(t, fixture.films.AddLike(context, movie.ID, userID))

	liked, err := fixture.films.FindByID(context, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, before.LikeCount()+1, liked.LikeCount())

	require.NoError(t, fixture.films.RemoveLike(context, movie.ID, userID))
	require.NoError(t, fixture.films.RemoveLike(context, movie.ID, userID))

	after, err := fixture.films.FindByID(context, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, before.LikeCount(), after.LikeCount())

	assert.True(t, apperr.IsNotFound(fixture.films.AddLike(context, 404, userID)))
	assert.True(t, apperr.IsNotFound(fixture.films.AddLike(context, movie.ID, 404)))
	assert.True(t, apperr.IsNotFound(fixture.films.RemoveLike(context, 404, userID)))
	assert.True(t, apperr.IsNotFound(fixture.films.RemoveLike(context, movie.ID, 404)))
}

/*
TestService_PopularFilms_Scenario: users 1 and 2 like Film A, user 1 likes
Film B; the top two are A then B.
*/
func TestService_PopularFilms_Scenario(t *testing.T) {
	fixture := newFixture()
	context := context.Background()

	filmA, err := fixture.films.Create(context, &film.Film{Name: "Film A", ReleaseDate: date.New(1990, time.January, 1), Duration: 100})
	require.NoError(t, err)
	filmB, err := fixture.films.Create(context, &film.Film{Name: "Film B", ReleaseDate: date.New(1995, time.January, 1), Duration: 90})
	require.NoError(t, err)

	first := fixture.createUser(t, "first")
	second := fixture.createUser(t, "second")

	require.NoError(t, fixture.films.AddLike(context, filmA.ID, first))
	require.NoError(t, fixture.films.AddLike(context, filmA.ID, second))
	require.NoError(t, fixture.films.AddLike(context, filmB.ID, first))

	popular, err := fixture.films.PopularFilms(context, 2)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "Film A", popular[0].Name)
	assert.Equal(t, "Film B", popular[1].Name)
}

func TestService_PopularFilms_Ordering(t *testing.T) {
	fixture := newFixture()
	context := context.Background()

	ids := make([]int64, 0, 12)
	for i := 0; i < 12; i++ {
		ids = append(ids, fixture.createFilm(t, "film").ID)
	}
	fans := []int64{fixture.createUser(t, "u1"), fixture.createUser(t, "u2"), fixture.createUser(t, "u3")}

	// film 5: 3 likes, films 3 and 9: 2 likes each, film 12: 1 like
	for _, fan := range fans {
		require.NoError(t, fixture.films.AddLike(context, ids[4], fan))
	}
	for _, fan := range fans[:2] {
		require.NoError(t, fixture.films.AddLike(context, ids[8], fan))
		require.NoError(t, fixture.films.AddLike(context, ids[2], fan))
	}
	require.NoError(t, fixture.films.AddLike(context, ids[11], fans[0]))

	tests := []struct {
		name  string
		count int
		want  []int64
	}{
		{"top_three", 3, []int64{ids[4], ids[2], ids[8]}},
		{"zero_likes_last_by_id", 6, []int64{ids[4], ids[2], ids[8], ids[11], ids[0], ids[1]}},
		{"default_for_zero", 0, []int64{ids[4], ids[2], ids[8], ids[11], ids[0], ids[1], ids[3], ids[5], ids[6], ids[7]}},
		{"default_for_negative", -5, []int64{ids[4], ids[2], ids[8], ids[11], ids[0], ids[1], ids[3], ids[5], ids[6], ids[7]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			popular, err := fixture.films.PopularFilms(context, tt.count)
			require.NoError(t, err)

			got := make([]int64, 0, len(popular))
			for _, entry := range popular {
				got = append(got, entry.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("count_larger_than_catalogue", func(t *testing.T) {
		popular, err := fixture.films.PopularFilms(context, 100)
		require.NoError(t, err)
		assert.Len(t, popular, 12)

		for i := 1; i < len(popular); i++ {
			previous, current := popular[i-1], popular[i]
			assert.GreaterOrEqual(t, previous.LikeCount(), current.LikeCount())
			if previous.LikeCount() == current.LikeCount() {
				assert.Less(t, previous.ID, current.ID)
			}
		}
	})
}
