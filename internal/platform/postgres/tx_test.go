// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/filmorate/internal/platform/postgres"
	"github.com/taibuivan/filmorate/pkg/date"
)

func TestDateBridge(t *testing.T) {
	assert.False(t, postgres.ToDate(date.Date{}).Valid)

	release := date.New(1990, time.January, 1)
	converted := postgres.ToDate(release)
	assert.True(t, converted.Valid)
	assert.Equal(t, release, postgres.FromDate(converted))

	assert.True(t, postgres.FromDate(pgtype.Date{}).IsZero())
}

type failingStarter struct{ err error }

func (starter failingStarter) Begin(context.Context) (pgx.Tx, error) { return nil, starter.err }

func TestWithTx_BeginFailureIsWrapped(t *testing.T) {
	cause := errors.New("pool closed")
	called := false

	err := postgres.WithTx(context.Background(), failingStarter{err: cause}, "create_film", func(pgx.Tx) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "create_film")
}
