package user

import (
	"context"
	"sync"

	"github.com/taibuivan/filmorate/internal/platform/apperr"
	"github.com/taibuivan/filmorate/pkg/slice"
)

// MemoryRepository implements [Repository] in process memory.
//
// It honours the same contract as [PostgresRepository]: ids are assigned from a
// monotonic counter and never reused, friend edges are directional and lists
// are ordered by id.
type MemoryRepository struct {
	mu      sync.RWMutex
	lastID  int64
	users   map[int64]*User
	friends map[int64]map[int64]struct{}
}

// NewMemoryRepository returns an empty in-memory user store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:   make(map[int64]*User),
		friends: make(map[int64]map[int64]struct{}),
	}
}

// # Entity Repository

func (repository *MemoryRepository) FindAll(_ context.Context) ([]*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	return repository.collect(slice.SortedKeys(repository.users)), nil
}

func (repository *MemoryRepository) FindByID(_ context.Context, id int64) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if _, ok := repository.users[id]; !ok {
		return nil, apperr.NotFoundID("User", id)
	}
	return repository.hydrate(id), nil
}

func (repository *MemoryRepository) Exists(_ context.Context, id int64) (bool, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	_, ok := repository.users[id]
	return ok, nil
}

func (repository *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.lastID++

	stored := user.clone()
	stored.ID = repository.lastID
	stored.Friends = nil
	repository.users[stored.ID] = stored

	return repository.hydrate(stored.ID), nil
}

func (repository *MemoryRepository) Update(_ context.Context, user *User) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[user.ID]; !ok {
		return nil, apperr.NotFoundID("User", user.ID)
	}

	stored := user.clone()
	stored.Friends = nil
	repository.users[user.ID] = stored

	return repository.hydrate(user.ID), nil
}

// # Relationship Store

func (repository *MemoryRepository) AddFriend(_ context.Context, userID, friendID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.mustExist(userID, friendID); err != nil {
		return err
	}

	edges, ok := repository.friends[userID]
	if !ok {
		edges = make(map[int64]struct{})
		repository.friends[userID] = edges
	}
	edges[friendID] = struct{}{}

	return nil
}

func (repository *MemoryRepository) RemoveFriend(_ context.Context, userID, friendID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.mustExist(userID, friendID); err != nil {
		return err
	}

	delete(repository.friends[userID], friendID)
	return nil
}

func (repository *MemoryRepository) GetFriends(_ context.Context, userID int64) ([]*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if err := repository.mustExist(userID); err != nil {
		return nil, err
	}

	return repository.collect(slice.SortedKeys(repository.friends[userID])), nil
}

func (repository *MemoryRepository) GetCommonFriends(_ context.Context, userID, otherID int64) ([]*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if err := repository.mustExist(userID, otherID); err != nil {
		return nil, err
	}

	common := slice.Intersect(
		slice.SortedKeys(repository.friends[userID]),
		slice.SortedKeys(repository.friends[otherID]),
	)
	return repository.collect(common), nil
}

// # Helpers (caller holds the lock)

func (repository *MemoryRepository) mustExist(ids ...int64) error {
	for _, id := range ids {
		if _, ok := repository.users[id]; !ok {
			return apperr.NotFoundID("User", id)
		}
	}
	return nil
}

func (repository *MemoryRepository) hydrate(id int64) *User {
	user := repository.users[id].clone()
	user.Friends = slice.SortedKeys(repository.friends[id])
	return user
}

func (repository *MemoryRepository) collect(ids []int64) []*User {
	users := make([]*User, 0, len(ids))
	for _, id := range ids {
		users = append(users, repository.hydrate(id))
	}
	return users
}
