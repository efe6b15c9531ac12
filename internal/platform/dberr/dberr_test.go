// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/filmorate/internal/platform/apperr"
	"github.com/taibuivan/filmorate/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	domain := apperr.NotFoundID("Film", 1)
	assert.Same(t, domain, dberr.Wrap(domain, "find_film"))

	assert.True(t, apperr.IsNotFound(dberr.Wrap(pgx.ErrNoRows, "find_film")))

	fk := &pgconn.PgError{Code: "23503", Message: "violates foreign key"}
	assert.True(t, apperr.IsNotFound(dberr.Wrap(fk, "insert_film")))

	tooLong := &pgconn.PgError{Code: "22001", Message: "value too long", ColumnName: "description"}
	validation := apperr.As(dberr.Wrap(tooLong, "insert_film"))
	if assert.NotNil(t, validation) {
		assert.Equal(t, apperr.CodeValidation, validation.Code)
		assert.Equal(t, "description", validation.Details[0].Field)
	}

	check := &pgconn.PgError{Code: "23514", Message: "violates check constraint"}
	assert.True(t, apperr.IsValidation(dberr.Wrap(check, "insert_film")))

	internal := apperr.As(dberr.Wrap(errors.New("connection reset"), "list_films"))
	if assert.NotNil(t, internal) {
		assert.Equal(t, apperr.CodeInternal, internal.Code)
		assert.Contains(t, internal.Cause.Error(), "list_films")
	}
}
