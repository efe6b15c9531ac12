package reference

import (
	"context"
	"log/slog"

	"github.com/taibuivan/filmorate/internal/platform/apperr"
)

// Service exposes lookup data to the HTTP layer.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a reference [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListGenres(context context.Context) ([]Genre, error) {
	return service.repo.ListGenres(context)
}

func (service *Service) GetGenre(context context.Context, id int64) (Genre, error) {
	genre, err := service.repo.GetGenre(context, id)
	service.logMiss(err, "genre", id)
	return genre, err
}

func (service *Service) ListMpa(context context.Context) ([]Mpa, error) {
	return service.repo.ListMpa(context)
}

func (service *Service) GetMpa(context context.Context, id int64) (Mpa, error) {
	rating, err := service.repo.GetMpa(context, id)
	service.logMiss(err, "mpa", id)
	return rating, err
}

// logMiss records lookups of ids that are not seeded.
func (service *Service) logMiss(err error, kind string, id int64) {
	if apperr.IsNotFound(err) {
		service.logger.Debug("reference_lookup_missed", slog.String("kind", kind), slog.Int64("id", id))
	}
}
