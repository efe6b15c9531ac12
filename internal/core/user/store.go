package user

import "context"

// # Repository Contracts

// Repository defines the persistence contract for users and friendships.
//
// Every method that takes a user id returns a NOT_FOUND [apperr.AppError] when
// that user does not exist. Lists are ordered by id ascending.
type Repository interface {
	// FindAll returns every user.
	FindAll(context context.Context) ([]*User, error)

	// FindByID returns a single user with its friend ids.
	FindByID(context context.Context, id int64) (*User, error)

	// Exists reports whether a user with the id is stored.
	Exists(context context.Context, id int64) (bool, error)

	// Create assigns the next id and stores the user.
	Create(context context.Context, user *User) (*User, error)

	// Update replaces the mutable fields of an existing user.
	Update(context context.Context, user *User) (*User, error)

	// AddFriend stores the edge userID → friendID. Adding an existing edge is a no-op.
	AddFriend(context context.Context, userID, friendID int64) error

	// RemoveFriend deletes the edge userID → friendID. A missing edge is a no-op.
	RemoveFriend(context context.Context, userID, friendID int64) error

	// GetFriends returns the users userID points at.
	GetFriends(context context.Context, userID int64) ([]*User, error)

	// GetCommonFriends returns the users both userID and otherID point at.
	GetCommonFriends(context context.Context, userID, otherID int64) ([]*User, error)
}
