package reference

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/filmorate/internal/platform/apperr"
)

// MemoryRepository implements [Repository] over fixed in-process tables.
type MemoryRepository struct {
	mu     sync.RWMutex
	genres map[int64]Genre
	mpa    map[int64]Mpa
}

// NewMemoryRepository returns a store seeded with [DefaultGenres] and [DefaultMpa].
func NewMemoryRepository() *MemoryRepository {
	return NewMemoryRepositoryWith(DefaultGenres, DefaultMpa)
}

// NewMemoryRepositoryWith returns a store seeded with the given rows.
func NewMemoryRepositoryWith(genres []Genre, ratings []Mpa) *MemoryRepository {
	repository := &MemoryRepository{
		genres: make(map[int64]Genre, len(genres)),
		mpa:    make(map[int64]Mpa, len(ratings)),
	}
	for _, genre := range genres {
		repository.genres[genre.ID] = genre
	}
	for _, rating := range ratings {
		repository.mpa[rating.ID] = rating
	}
	return repository
}

func (repository *MemoryRepository) ListGenres(_ context.Context) ([]Genre, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	genres := make([]Genre, 0, len(repository.genres))
	for _, genre := range repository.genres {
		genres = append(genres, genre)
	}
	slices.SortFunc(genres, func(a, b Genre) int { return cmp.Compare(a.ID, b.ID) })
	return genres, nil
}

func (repository *MemoryRepository) GetGenre(_ context.Context, id int64) (Genre, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	genre, ok := repository.genres[id]
	if !ok {
		return Genre{}, apperr.NotFoundID("Genre", id)
	}
	return genre, nil
}

func (repository *MemoryRepository) ListMpa(_ context.Context) ([]Mpa, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	ratings := make([]Mpa, 0, len(repository.mpa))
	for _, rating := range repository.mpa {
		ratings = append(ratings, rating)
	}
	slices.SortFunc(ratings, func(a, b Mpa) int { return cmp.Compare(a.ID, b.ID) })
	return ratings, nil
}

func (repository *MemoryRepository) GetMpa(_ context.Context, id int64) (Mpa, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	rating, ok := repository.mpa[id]
	if !ok {
		return Mpa{}, apperr.NotFoundID("Mpa", id)
	}
	return rating, nil
}
