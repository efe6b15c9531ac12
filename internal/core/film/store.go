package film

import "context"

// # Repository Contracts

// Repository defines the persistence contract for films and likes.
//
// Every method that takes a film or user id returns a NOT_FOUND
// [apperr.AppError] when the row does not exist. Unknown rating or genre ids
// on Create/Update also yield NOT_FOUND and leave storage unchanged.
type Repository interface {
	// FindAll returns every film ordered by id.
	FindAll(context context.Context) ([]*Film, error)

	// FindByID returns a single hydrated film.
	FindByID(context context.Context, id int64) (*Film, error)

	// Create assigns the next id and stores the film with its genres atomically.
	Create(context context.Context, film *Film) (*Film, error)

	// Update replaces the mutable fields and the genre set atomically.
	Update(context context.Context, film *Film) (*Film, error)

	// AddLike records that userID likes filmID. Repeating it is a no-op.
	AddLike(context context.Context, filmID, userID int64) error

	// RemoveLike deletes the like. A missing like is a no-op.
	RemoveLike(context context.Context, filmID, userID int64) error

	// Popular returns at most count films by like count descending, id ascending.
	Popular(context context.Context, count int) ([]*Film, error)
}

// UserChecker reports whether a user exists. The user store satisfies it.
type UserChecker interface {
	Exists(context context.Context, id int64) (bool, error)
}
