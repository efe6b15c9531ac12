package film

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/filmorate/internal/core/reference"
	"github.com/taibuivan/filmorate/internal/platform/apperr"
	"github.com/taibuivan/filmorate/pkg/slice"
)

// MemoryRepository implements [Repository] in process memory.
//
// It honours the same contract as [PostgresRepository]. Rating and genre ids
// are resolved through a [reference.Repository]; user ids through a [UserChecker].
type MemoryRepository struct {
	mu     sync.RWMutex
	lastID int64
	films  map[int64]*Film
	likes  map[int64]map[int64]struct{}

	refs  reference.Repository
	users UserChecker
}

// NewMemoryRepository returns an empty in-memory film store.
func NewMemoryRepository(refs reference.Repository, users UserChecker) *MemoryRepository {
	return &MemoryRepository{
		films: make(map[int64]*Film),
		likes: make(map[int64]map[int64]struct{}),
		refs:  refs,
		users: users,
	}
}

// # Entity Repository

func (repository *MemoryRepository) FindAll(_ context.Context) ([]*Film, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	ids := slice.SortedKeys(repository.films)
	films := make([]*Film, 0, len(ids))
	for _, id := range ids {
		films = append(films, repository.hydrate(id))
	}
	return films, nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id int64) (*Film, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if _, ok := repository.films[id]; !ok {
		return nil, apperr.NotFoundID("Film", id)
	}
	return repository.hydrate(id), nil
}

func (repository *MemoryRepository) Create(context context.Context, film *Film) (*Film, error) {

	// Resolve references before taking the lock; lookup data is immutable
	stored, err := repository.resolve(context, film)
	if err != nil {
		return nil, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.lastID++
	stored.ID = repository.lastID
	repository.films[stored.ID] = stored

	return repository.hydrate(stored.ID), nil
}

func (repository *MemoryRepository) Update(context context.Context, film *Film) (*Film, error) {
	if err := repository.mustExist(film.ID); err != nil {
		return nil, err
	}

	stored, err := repository.resolve(context, film)
	if err != nil {
		return nil, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.films[film.ID]; !ok {
		return nil, apperr.NotFoundID("Film", film.ID)
	}
	repository.films[film.ID] = stored

	return repository.hydrate(film.ID), nil
}

// # Relationship Store

func (repository *MemoryRepository) AddLike(context context.Context, filmID, userID int64) error {
	if err := repository.checkPair(context, filmID, userID); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	users, ok := repository.likes[filmID]
	if !ok {
		users = make(map[int64]struct{})
		repository.likes[filmID] = users
	}
	users[userID] = struct{}{}

	return nil
}

func (repository *MemoryRepository) RemoveLike(context context.Context, filmID, userID int64) error {
	if err := repository.checkPair(context, filmID, userID); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.likes[filmID], userID)
	return nil
}

// # Ranking Query

func (repository *MemoryRepository) Popular(_ context.Context, count int) ([]*Film, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	films := make([]*Film, 0, len(repository.films))
	for id := range repository.films {
		films = append(films, repository.hydrate(id))
	}

	slices.SortFunc(films, func(a, b *Film) int {
		if byLikes := cmp.Compare(b.LikeCount(), a.LikeCount()); byLikes != 0 {
			return byLikes
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if count < len(films) {
		films = films[:max(count, 0)]
	}
	return films, nil
}

// # Helpers

func (repository *MemoryRepository) mustExist(filmID int64) error {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if _, ok := repository.films[filmID]; !ok {
		return apperr.NotFoundID("Film", filmID)
	}
	return nil
}

func (repository *MemoryRepository) checkPair(context context.Context, filmID, userID int64) error {
	if err := repository.mustExist(filmID); err != nil {
		return err
	}

	found, err := repository.users.Exists(context, userID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFoundID("User", userID)
	}
	return nil
}

// resolve copies film with its rating and genres replaced by the stored lookup rows.
func (repository *MemoryRepository) resolve(context context.Context, film *Film) (*Film, error) {
	stored := film.clone()
	stored.Likes = nil

	if film.Mpa != nil {
		rating, err := repository.refs.GetMpa(context, film.Mpa.ID)
		if err != nil {
			return nil, err
		}
		stored.Mpa = &rating
	}

	genres := make([]reference.Genre, 0, len(film.Genres))
	for _, genreID := range film.GenreIDs() {
		genre, err := repository.refs.GetGenre(context, genreID)
		if err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	genres = slice.UniqueBy(genres, func(genre reference.Genre) int64 { return genre.ID })
	slices.SortFunc(genres, func(a, b reference.Genre) int { return cmp.Compare(a.ID, b.ID) })
	stored.Genres = genres

	return stored, nil
}

// hydrate returns a copy of the stored film with its likes. Caller holds the lock.
func (repository *MemoryRepository) hydrate(id int64) *Film {
	film := repository.films[id].clone()
	film.Likes = slice.SortedKeys(repository.likes[id])
	return film
}
