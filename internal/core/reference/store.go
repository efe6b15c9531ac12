package reference

import "context"

// Repository defines the data access contract for lookup data.
//
// Lists are ordered by id ascending. Single lookups return a NOT_FOUND
// [apperr.AppError] for unknown ids.
type Repository interface {
	ListGenres(context context.Context) ([]Genre, error)
	GetGenre(context context.Context, id int64) (Genre, error)
	ListMpa(context context.Context) ([]Mpa, error)
	GetMpa(context context.Context, id int64) (Mpa, error)
}
