// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmorate/internal/platform/migration"
	"github.com/taibuivan/filmorate/internal/platform/postgres/pgtest"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/filmorate", "pgx5://u:p@db:5432/filmorate"},
		{"postgresql://u:p@db/filmorate?sslmode=disable", "pgx5://u:p@db/filmorate?sslmode=disable"},
		{"pgx5://u:p@db/filmorate", "pgx5://u:p@db/filmorate"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.in))
	}
}

/*
TestMigrations_UpDownWithData applies every migration, stores a film that uses
seeded genres and a rating, then rolls all migrations back and reapplies them.
*/
func TestMigrations_UpDownWithData(t *testing.T) {
	dsn := pgtest.DSN(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	context := context.Background()

	require.NoError(t, migration.RunUp(dsn, pgtest.MigrationsPath(), logger))

	conn, err := pgx.Connect(context, dsn)
	require.NoError(t, err)
	defer func() { _ = conn.Close(context) }()

	var filmID int64
	require.NoError(t, conn.QueryRow(context,
		`INSERT INTO film (name, release_date, duration, mpa_id) VALUES ('Seeded', '2000-01-01', 90, 4) RETURNING id`,
	).Scan(&filmID))
	_, err = conn.Exec(context, `INSERT INTO film_genres (film_id, genre_id) VALUES ($1, 1), ($1, 6)`, filmID)
	require.NoError(t, err)

	migrator, err := migrate.New("file://"+pgtest.MigrationsPath(), migration.ToPgx5DSN(dsn))
	require.NoError(t, err)
	defer func() { _, _ = migrator.Close() }()

	// 1. Unseed with data in place
	require.NoError(t, migrator.Steps(-1))

	var mpaID *int64
	require.NoError(t, conn.QueryRow(context, `SELECT mpa_id FROM film WHERE id = $1`, filmID).Scan(&mpaID))
	assert.Nil(t, mpaID)

	// 2. Drop everything, then rebuild
	require.NoError(t, migrator.Down())
	require.NoError(t, migration.RunUp(dsn, pgtest.MigrationsPath(), logger))

	var genres int
	require.NoError(t, conn.QueryRow(context, `SELECT COUNT(*) FROM genres`).Scan(&genres))
	assert.Equal(t, 6, genres)
}
