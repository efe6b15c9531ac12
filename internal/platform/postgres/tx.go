// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/taibuivan/filmorate/internal/platform/apperr"
	"github.com/taibuivan/filmorate/pkg/date"
)

// # Unit of Work

// TxStarter begins transactions; *pgxpool.Pool satisfies it.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

/*
WithTx runs fn inside a single transaction.

Description: The transaction commits only when fn returns nil. Any error,
including a domain [*apperr.AppError] raised by an existence check, rolls the
whole unit back. Domain errors are returned unchanged; everything else is wrapped
with the action name for the logs.

Parameters:
  - ctx: context.Context
  - db: TxStarter (usually the pool)
  - action: string (short label used in error messages)
  - fn: func(pgx.Tx) error

Returns:
  - error: fn's error, or a begin/commit failure
*/
func WithTx(ctx context.Context, db TxStarter, action string, fn func(tx pgx.Tx) error) error {
	err := pgx.BeginFunc(ctx, db, fn)
	if err == nil || apperr.IsAppError(err) {
		return err
	}
	return fmt.Errorf("postgres: %s: %w", action, err)
}

// # Existence Checks

// Exists reports whether a row with the given id exists in table.
func Exists(ctx context.Context, tx pgx.Tx, table, idColumn string, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, table, idColumn)

	var found bool
	if err := tx.QueryRow(ctx, query, id).Scan(&found); err != nil {
		return false, fmt.Errorf("postgres: exists check on %s failed: %w", table, err)
	}
	return found, nil
}

// MustExist returns [apperr.NotFoundID] when the id is missing from table.
func MustExist(ctx context.Context, tx pgx.Tx, table, idColumn, resource string, id int64) error {
	found, err := Exists(ctx, tx, table, idColumn, id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFoundID(resource, id)
	}
	return nil
}

// # Type Bridges

// ToDate converts a calendar [date.Date] to a nullable pgtype.Date.
func ToDate(value date.Date) pgtype.Date {
	if value.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: value.Time, Valid: true}
}

// FromDate converts a scanned pgtype.Date back to a calendar [date.Date].
func FromDate(value pgtype.Date) date.Date {
	if !value.Valid {
		return date.Date{}
	}
	return date.From(value.Time)
}
