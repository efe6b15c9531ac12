package reference

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/filmorate/internal/platform/apperr"
	"github.com/taibuivan/filmorate/internal/platform/database/schema"
	"github.com/taibuivan/filmorate/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed lookup store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Genres

func (repository *PostgresRepository) ListGenres(context context.Context) ([]Genre, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		ORDER BY %s ASC;
	`,
		schema.Genres.ID,
		schema.Genres.Name,
		schema.Genres.Table,
		schema.Genres.ID,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_genres")
	}

	genres, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Genre, error) {
		var genre Genre
		err := row.Scan(&genre.ID, &genre.Name)
		return genre, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_genre")
	}

	return genres, nil
}

func (repository *PostgresRepository) GetGenre(context context.Context, id int64) (Genre, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.Genres.ID,
		schema.Genres.Name,
		schema.Genres.Table,
		schema.Genres.ID,
	)

	var genre Genre
	err := repository.db.QueryRow(context, query, id).Scan(&genre.ID, &genre.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Genre{}, apperr.NotFoundID("Genre", id)
	}
	return genre, dberr.Wrap(err, "get_genre")
}

// # MPA Ratings

func (repository *PostgresRepository) ListMpa(context context.Context) ([]Mpa, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		ORDER BY %s ASC;
	`,
		schema.Mpa.ID,
		schema.Mpa.Name,
		schema.Mpa.Table,
		schema.Mpa.ID,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_mpa")
	}

	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Mpa, error) {
		var rating Mpa
		err := row.Scan(&rating.ID, &rating.Name)
		return rating, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_mpa")
	}

	return ratings, nil
}

func (repository *PostgresRepository) GetMpa(context context.Context, id int64) (Mpa, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.Mpa.ID,
		schema.Mpa.Name,
		schema.Mpa.Table,
		schema.Mpa.ID,
	)

	var rating Mpa
	err := repository.db.QueryRow(context, query, id).Scan(&rating.ID, &rating.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Mpa{}, apperr.NotFoundID("Mpa", id)
	}
	return rating, dberr.Wrap(err, "get_mpa")
}
