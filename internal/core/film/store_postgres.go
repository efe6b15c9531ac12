/*
Package film provides the PostgreSQL implementation of the catalogue store.

  - JSON Aggregation: genres load as a json_agg sub-select, likes as an ARRAY
    sub-select, so one query hydrates a whole film.
  - ACID Transactions: the film row and its genre edges are written in one
    transaction, and every like mutation checks both parents in that same
    transaction.
*/
package film

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/filmorate/internal/core/reference"
	"github.com/taibuivan/filmorate/internal/platform/apperr"
	"github.com/taibuivan/filmorate/internal/platform/database/schema"
	"github.com/taibuivan/filmorate/internal/platform/dberr"
	"github.com/taibuivan/filmorate/internal/platform/postgres"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(context context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed film store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Query Building

/*
selectFilms builds the hydrated film projection.

Parameters:
  - where: string (optional WHERE clause over alias "f")
  - orderBy: string (ORDER BY expression)
  - limit: string (optional LIMIT clause)

Returns:
  - string: SQL selecting id, name, description, release date, duration,
    rating id and name, genres as JSON and likes as bigint[]
*/
func selectFilms(where, orderBy, limit string) string {
	return fmt.Sprintf(`
		SELECT
			f.%s, f.%s, f.%s, f.%s, f.%s,
			m.%s, m.%s,
			COALESCE((
				SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s) ORDER BY g.%s)
				FROM %s fg
				JOIN %s g ON g.%s = fg.%s
				WHERE fg.%s = f.%s
			), '[]') AS genres,
			ARRAY(
				SELECT l.%s FROM %s l
				WHERE l.%s = f.%s
				ORDER BY l.%s
			) AS likes
		FROM %s f
		LEFT JOIN %s m ON m.%s = f.%s
		%s
		ORDER BY %s
		%s;
	`,
		schema.Film.ID, schema.Film.Name, schema.Film.Description, schema.Film.ReleaseDate, schema.Film.Duration,
		schema.Mpa.ID, schema.Mpa.Name,
		schema.Genres.ID, schema.Genres.Name, schema.Genres.ID,
		schema.FilmGenre.Table,
		schema.Genres.Table, schema.Genres.ID, schema.FilmGenre.GenreID,
		schema.FilmGenre.FilmID, schema.Film.ID,
		schema.FilmLike.UserID, schema.FilmLike.Table,
		schema.FilmLike.FilmID, schema.Film.ID,
		schema.FilmLike.UserID,
		schema.Film.Table,
		schema.Mpa.Table, schema.Mpa.ID, schema.Film.MpaID,
		where,
		orderBy,
		limit,
	)
}

// scanFilm maps one projection row onto a [Film].
func scanFilm(row pgx.Row) (*Film, error) {
	var (
		film        Film
		description pgtype.Text
		releaseDate pgtype.Date
		mpaID       pgtype.Int8
		mpaName     pgtype.Text
		genres      []byte
	)

	err := row.Scan(
		&film.ID, &film.Name, &description, &releaseDate, &film.Duration,
		&mpaID, &mpaName,
		&genres,
		&film.Likes,
	)
	if err != nil {
		return nil, err
	}

	film.Description = description.String
	film.ReleaseDate = postgres.FromDate(releaseDate)

	if mpaID.Valid {
		film.Mpa = &reference.Mpa{ID: mpaID.Int64, Name: mpaName.String}
	}

	if err := json.Unmarshal(genres, &film.Genres); err != nil {
		return nil, fmt.Errorf("postgres: decode film genres: %w", err)
	}
	if film.Genres == nil {
		film.Genres = []reference.Genre{}
	}
	if film.Likes == nil {
		film.Likes = []int64{}
	}

	return &film, nil
}

// queryFilms runs a projection query and collects every row.
func queryFilms(context context.Context, db querier, action, query string, args ...any) ([]*Film, error) {
	rows, err := db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	films, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Film, error) {
		return scanFilm(row)
	})
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	if films == nil {
		films = []*Film{}
	}

	return films, nil
}

// findByID loads a single film through db.
func findByID(context context.Context, db querier, id int64) (*Film, error) {
	query := selectFilms(fmt.Sprintf("WHERE f.%s = $1", schema.Film.ID), "f."+schema.Film.ID, "")

	film, err := scanFilm(db.QueryRow(context, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundID("Film", id)
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_film")
	}

	return film, nil
}

// # Entity Repository

func (repository *PostgresRepository) FindAll(context context.Context) ([]*Film, error) {
	return queryFilms(context, repository.pool, "list_films", selectFilms("", "f."+schema.Film.ID+" ASC", ""))
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Film, error) {
	return findByID(context, repository.pool, id)
}

/*
Create inserts a film row and its genre edges in one transaction.

Parameters:
  - context: context.Context
  - film: *Film (validated by the service; genres de-duplicated)

Returns:
  - *Film: The stored, hydrated film
  - error: NOT_FOUND for unknown rating or genre ids, otherwise database errors
*/
func (repository *PostgresRepository) Create(context context.Context, film *Film) (*Film, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s;
	`,
		schema.Film.Table,
		schema.Film.Name,
		schema.Film.Description,
		schema.Film.ReleaseDate,
		schema.Film.Duration,
		schema.Film.MpaID,
		schema.Film.ID,
	)

	var created *Film
	err := postgres.WithTx(context, repository.pool, "create_film", func(tx pgx.Tx) error {
		if err := checkReferences(context, tx, film); err != nil {
			return err
		}

		var filmID int64
		err := tx.QueryRow(context, query,
			film.Name,
			film.Description,
			postgres.ToDate(film.ReleaseDate),
			film.Duration,
			mpaID(film),
		).Scan(&filmID)
		if err != nil {
			return dberr.Wrap(err, "create_film")
		}

		if err := replaceGenres(context, tx, filmID, film.GenreIDs()); err != nil {
			return err
		}

		created, err = findByID(context, tx, filmID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

/*
Update replaces a film row and clears and re-inserts its genre edges in one
transaction.

Returns:
  - *Film: The stored, hydrated film including its current likes
  - error: NOT_FOUND for an unknown film, rating or genre
*/
func (repository *PostgresRepository) Update(context context.Context, film *Film) (*Film, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $6;
	`,
		schema.Film.Table,
		schema.Film.Name,
		schema.Film.Description,
		schema.Film.ReleaseDate,
		schema.Film.Duration,
		schema.Film.MpaID,
		schema.Film.ID,
	)

	var updated *Film
	err := postgres.WithTx(context, repository.pool, "update_film", func(tx pgx.Tx) error {
		if err := postgres.MustExist(context, tx, schema.Film.Table, schema.Film.ID, "Film", film.ID); err != nil {
			return err
		}
		if err := checkReferences(context, tx, film); err != nil {
			return err
		}

		_, err := tx.Exec(context, query,
			film.Name,
			film.Description,
			postgres.ToDate(film.ReleaseDate),
			film.Duration,
			mpaID(film),
			film.ID,
		)
		if err != nil {
			return dberr.Wrap(err, "update_film")
		}

		if err := replaceGenres(context, tx, film.ID, film.GenreIDs()); err != nil {
			return err
		}

		updated, err = findByID(context, tx, film.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// # Relationship Store

// mustExistPair checks the film and the user inside tx.
func mustExistPair(context context.Context, tx pgx.Tx, filmID, userID int64) error {
	if err := postgres.MustExist(context, tx, schema.Film.Table, schema.Film.ID, "Film", filmID); err != nil {
		return err
	}
	return postgres.MustExist(context, tx, schema.Users.Table, schema.Users.ID, "User", userID)
}

func (repository *PostgresRepository) AddLike(context context.Context, filmID, userID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT (%s, %s) DO NOTHING;
	`,
		schema.FilmLike.Table,
		schema.FilmLike.FilmID,
		schema.FilmLike.UserID,
		schema.FilmLike.FilmID,
		schema.FilmLike.UserID,
	)

	return postgres.WithTx(context, repository.pool, "add_like", func(tx pgx.Tx) error {
		if err := mustExistPair(context, tx, filmID, userID); err != nil {
			return err
		}
		_, err := tx.Exec(context, query, filmID, userID)
		return dberr.Wrap(err, "add_like")
	})
}

func (repository *PostgresRepository) RemoveLike(context context.Context, filmID, userID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2;`,
		schema.FilmLike.Table,
		schema.FilmLike.FilmID,
		schema.FilmLike.UserID,
	)

	return postgres.WithTx(context, repository.pool, "remove_like", func(tx pgx.Tx) error {
		if err := mustExistPair(context, tx, filmID, userID); err != nil {
			return err
		}
		_, err := tx.Exec(context, query, filmID, userID)
		return dberr.Wrap(err, "remove_like")
	})
}

// # Ranking Query

/*
Popular returns the most liked films.

Description: Films without likes rank last; ties break on ascending id so the
order is deterministic.
*/
func (repository *PostgresRepository) Popular(context context.Context, count int) ([]*Film, error) {
	orderBy := fmt.Sprintf(`(SELECT COUNT(*) FROM %s c WHERE c.%s = f.%s) DESC, f.%s ASC`,
		schema.FilmLike.Table, schema.FilmLike.FilmID, schema.Film.ID,
		schema.Film.ID,
	)

	return queryFilms(context, repository.pool, "popular_films", selectFilms("", orderBy, "LIMIT $1"), count)
}

// # Helpers

// mpaID returns the rating id or nil for a film without a rating.
func mpaID(film *Film) *int64 {
	if film.Mpa == nil {
		return nil
	}
	return &film.Mpa.ID
}

// checkReferences reports the first unknown rating or genre id.
func checkReferences(context context.Context, tx pgx.Tx, film *Film) error {
	if film.Mpa != nil {
		if err := postgres.MustExist(context, tx, schema.Mpa.Table, schema.Mpa.ID, "Mpa", film.Mpa.ID); err != nil {
			return err
		}
	}

	for _, genreID := range film.GenreIDs() {
		if err := postgres.MustExist(context, tx, schema.Genres.Table, schema.Genres.ID, "Genre", genreID); err != nil {
			return err
		}
	}

	return nil
}

/*
replaceGenres clears a film's genre edges and queues the new set on a pgx.Batch.

Parameters:
  - context: context.Context
  - tx: pgx.Tx (the enclosing transaction)
  - filmID: int64
  - genreIDs: []int64 (already de-duplicated)

Returns:
  - error: Execution failures
*/
func replaceGenres(context context.Context, tx pgx.Tx, filmID int64, genreIDs []int64) error {
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.FilmGenre.Table, schema.FilmGenre.FilmID)
	if _, err := tx.Exec(context, deleteQuery, filmID); err != nil {
		return dberr.Wrap(err, "clear_film_genres")
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		schema.FilmGenre.Table, schema.FilmGenre.FilmID, schema.FilmGenre.GenreID)

	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insertQuery, filmID, genreID)
	}

	if err := tx.SendBatch(context, batch).Close(); err != nil {
		return dberr.Wrap(err, "insert_film_genres")
	}

	return nil
}
