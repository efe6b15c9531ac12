// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pgtest opens migrated PostgreSQL schemas for integration tests.

Tests are skipped unless TEST_DATABASE_URL holds a postgres:// URL. Every call
recreates a schema named after the test and scopes the connection to it through
search_path, so packages may run their suites in parallel against one server.
*/
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/filmorate/internal/platform/migration"
	"github.com/taibuivan/filmorate/internal/platform/postgres"
)

// EnvDatabaseURL names the variable holding the test server URL.
const EnvDatabaseURL = "TEST_DATABASE_URL"

// maxIdentifier is PostgreSQL's NAMEDATALEN - 1.
const maxIdentifier = 63

/*
Open returns a pool bound to a fresh schema with every migration applied.

Parameters:
  - t: *testing.T (skipped when no database is configured)

Returns:
  - *pgxpool.Pool: Closed automatically when the test ends
*/
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dsn := DSN(t)

	require.NoError(t, migration.RunUp(dsn, MigrationsPath(), logger))

	pool, err := postgres.NewPool(t.Context(), dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

/*
DSN recreates the schema for t and returns a URL scoped to it. No migration is
applied.
*/
func DSN(t *testing.T) string {
	t.Helper()

	base := os.Getenv(EnvDatabaseURL)
	if base == "" {
		t.Skipf("%s is not set", EnvDatabaseURL)
	}

	schemaName := SchemaName(t.Name())
	identifier := pgx.Identifier{schemaName}.Sanitize()

	conn, err := pgx.Connect(t.Context(), base)
	require.NoError(t, err)
	defer func() { _ = conn.Close(context.Background()) }()

	_, err = conn.Exec(t.Context(), "DROP SCHEMA IF EXISTS "+identifier+" CASCADE")
	require.NoError(t, err)
	_, err = conn.Exec(t.Context(), "CREATE SCHEMA "+identifier)
	require.NoError(t, err)

	parsed, err := url.Parse(base)
	require.NoError(t, err)

	query := parsed.Query()
	query.Set("search_path", schemaName)
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// SchemaName folds a test name into a lower-case PostgreSQL identifier.
func SchemaName(testName string) string {
	var builder strings.Builder
	builder.WriteString("t_")

	for _, r := range strings.ToLower(testName) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		default:
			builder.WriteByte('_')
		}
	}

	name := builder.String()
	if len(name) > maxIdentifier {
		name = name[:maxIdentifier]
	}
	return name
}

// MigrationsPath locates data/migrations from this source file.
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
