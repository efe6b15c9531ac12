// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/filmorate/internal/platform/validate"
	"github.com/taibuivan/filmorate/pkg/date"
)

// # Service Layer

// Service enforces member rules before delegating to the [Repository].
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// Option customises a [Service].
type Option func(*Service)

// WithClock overrides the time source used for the birthday rule.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// NewService constructs a new user [Service].
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	service := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// # Lookups

func (service *Service) FindAll(context context.Context) ([]*User, error) {
	return service.repo.FindAll(context)
}

func (service *Service) FindByID(context context.Context, id int64) (*User, error) {
	return service.repo.FindByID(context, id)
}

// # Mutations

/*
Create validates, normalises and stores a new user.

Description: A blank name is replaced by the login before persistence.

Returns:
  - *User: The stored user with its assigned id
  - error: VALIDATION_ERROR naming every failed field
*/
func (service *Service) Create(context context.Context, user *User) (*User, error) {
	if err := service.validate(user, false); err != nil {
		service.logger.Warn("user_rejected", slog.String("login", user.Login), slog.Any("error", err))
		return nil, err
	}
	normalise(user)

	created, err := service.repo.Create(context, user)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_created", slog.Int64("user_id", created.ID), slog.String("login", created.Login))
	return created, nil
}

/*
Update validates and replaces an existing user.

Description: Field rules run before the existence check, so an invalid body for
an unknown id yields VALIDATION_ERROR rather than NOT_FOUND.
*/
func (service *Service) Update(context context.Context, user *User) (*User, error) {
	if err := service.validate(user, true); err != nil {
		service.logger.Warn("user_rejected", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, err
	}
	normalise(user)

	updated, err := service.repo.Update(context, user)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_updated", slog.Int64("user_id", updated.ID))
	return updated, nil
}

// # Friendship

func (service *Service) AddFriend(context context.Context, userID, friendID int64) error {
	validator := &validate.Validator{}
	validator.Custom("friendId", userID == friendID, "must differ from the user id")
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.AddFriend(context, userID, friendID); err != nil {
		return err
	}

	service.logger.Info("friend_added", slog.Int64("user_id", userID), slog.Int64("friend_id", friendID))
	return nil
}

func (service *Service) RemoveFriend(context context.Context, userID, friendID int64) error {
	if err := service.repo.RemoveFriend(context, userID, friendID); err != nil {
		return err
	}

	service.logger.Info("friend_removed", slog.Int64("user_id", userID), slog.Int64("friend_id", friendID))
	return nil
}

func (service *Service) GetFriends(context context.Context, userID int64) ([]*User, error) {
	return service.repo.GetFriends(context, userID)
}

func (service *Service) GetCommonFriends(context context.Context, userID, otherID int64) ([]*User, error) {
	return service.repo.GetCommonFriends(context, userID, otherID)
}

// # Rules

func (service *Service) validate(user *User, requireID bool) error {
	validator := &validate.Validator{}

	validator.Email("email", user.Email).
		Required("login", user.Login).
		NoWhitespace("login", user.Login).
		NotAfter("birthday", user.Birthday, date.From(service.now()))

	if requireID {
		validator.Custom("id", user.ID <= 0, "is required")
	}

	return validator.Err()
}

// normalise fills derived fields. The login stands in for a blank name.
func normalise(user *User) {
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}
}
