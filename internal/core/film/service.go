// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package film

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/filmorate/internal/core/reference"
	"github.com/taibuivan/filmorate/internal/platform/constants"
	"github.com/taibuivan/filmorate/internal/platform/validate"
	"github.com/taibuivan/filmorate/pkg/date"
	"github.com/taibuivan/filmorate/pkg/slice"
)

// # Service Layer

// Service enforces catalogue rules before delegating to the [Repository].
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new film [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Lookups

func (service *Service) FindAll(context context.Context) ([]*Film, error) {
	return service.repo.FindAll(context)
}

func (service *Service) FindByID(context context.Context, id int64) (*Film, error) {
	return service.repo.FindByID(context, id)
}

/*
PopularFilms returns the most liked films.

Parameters:
  - context: context.Context
  - count: int (values <= 0 fall back to the default of 10)

Returns:
  - []*Film: At most count films, by likes descending then id ascending
  - error: Repository failures
*/
func (service *Service) PopularFilms(context context.Context, count int) ([]*Film, error) {
	if count <= 0 {
		count = constants.DefaultPopularCount
	}
	return service.repo.Popular(context, count)
}

// # Mutations

/*
Create validates and stores a new film.

Returns:
  - *Film: The stored film with its assigned id and hydrated references
  - error: VALIDATION_ERROR for rule failures, NOT_FOUND for unknown rating or genre
*/
func (service *Service) Create(context context.Context, film *Film) (*Film, error) {
	if err := validateFilm(film, false); err != nil {
		service.logger.Warn("film_rejected", slog.String("name", film.Name), slog.Any("error", err))
		return nil, err
	}
	normalise(film)

	created, err := service.repo.Create(context, film)
	if err != nil {
		return nil, err
	}

	service.logger.Info("film_created", slog.Int64("film_id", created.ID), slog.String("name", created.Name))
	return created, nil
}

/*
Update validates and replaces an existing film, including its genre set.

Description: Field rules run before the existence check, so an invalid body for
an unknown id yields VALIDATION_ERROR rather than NOT_FOUND.
*/
func (service *Service) Update(context context.Context, film *Film) (*Film, error) {
	if err := validateFilm(film, true); err != nil {
		service.logger.Warn("film_rejected", slog.Int64("film_id", film.ID), slog.Any("error", err))
		return nil, err
	}
	normalise(film)

	updated, err := service.repo.Update(context, film)
	if err != nil {
		return nil, err
	}

	service.logger.Info("film_updated", slog.Int64("film_id", updated.ID))
	return updated, nil
}

// # Likes

func (service *Service) AddLike(context context.Context, filmID, userID int64) error {
	if err := service.repo.AddLike(context, filmID, userID); err != nil {
		return err
	}

	service.logger.Info("like_added", slog.Int64("film_id", filmID), slog.Int64("user_id", userID))
	return nil
}

func (service *Service) RemoveLike(context context.Context, filmID, userID int64) error {
	if err := service.repo.RemoveLike(context, filmID, userID); err != nil {
		return err
	}

	service.logger.Info("like_removed", slog.Int64("film_id", filmID), slog.Int64("user_id", userID))
	return nil
}

// # Rules

func validateFilm(film *Film, requireID bool) error {
	validator := &validate.Validator{}

	validator.Required("name", film.Name).
		MaxLen("description", film.Description, constants.MaxDescriptionLength).
		DateRequired("releaseDate", film.ReleaseDate).
		NotBefore("releaseDate", film.ReleaseDate, date.From(constants.EarliestReleaseDate)).
		Positive("duration", film.Duration)

	if requireID {
		validator.Custom("id", film.ID <= 0, "is required")
	}

	return validator.Err()
}

// normalise stores the description in NFC and reduces the genre list to a set
// ordered by id.
func normalise(film *Film) {
	film.Description = norm.NFC.String(film.Description)

	genres := slice.UniqueBy(film.Genres, func(genre reference.Genre) int64 { return genre.ID })
	slices.SortFunc(genres, func(a, b reference.Genre) int { return cmp.Compare(a.ID, b.ID) })
	film.Genres = genres
}
