/*
Package user provides the PostgreSQL implementation of the member store.

Friend ids are hydrated with an ARRAY sub-select so a user and its outgoing
edges load in a single round-trip. Every mutation that depends on another row
(friend edges) checks existence and writes inside one transaction.
*/
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

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

// NewPostgresRepository constructs a PostgreSQL backed user store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Query Building

// selectUsers returns the hydrated user projection. The caller appends the
// WHERE/JOIN tail; the users table is aliased "u".
func selectUsers(tail string) string {
	return fmt.Sprintf(`
		SELECT
			u.%s, u.%s, u.%s, u.%s, u.%s,
			ARRAY(
				SELECT f.%s FROM %s f
				WHERE f.%s = u.%s
				ORDER BY f.%s
			) AS friends
		FROM %s u
		%s
		ORDER BY u.%s ASC;
	`,
		schema.Users.ID,
		schema.Users.Email,
		schema.Users.Login,
		schema.Users.Name,
		schema.Users.Birthday,
		schema.UserFriendship.FriendID, schema.UserFriendship.Table,
		schema.UserFriendship.UserID, schema.Users.ID,
		schema.UserFriendship.FriendID,
		schema.Users.Table,
		tail,
		schema.Users.ID,
	)
}

// scanUser maps one projection row onto a [User].
func scanUser(row pgx.Row) (*User, error) {
	var (
		user     User
		birthday pgtype.Date
	)

	if err := row.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &birthday, &user.Friends); err != nil {
		return nil, err
	}

	user.Birthday = postgres.FromDate(birthday)
	if user.Friends == nil {
		user.Friends = []int64{}
	}

	return &user, nil
}

// queryUsers runs a projection query and collects every row.
func queryUsers(context context.Context, db querier, action, query string, args ...any) ([]*User, error) {
	rows, err := db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	if users == nil {
		users = []*User{}
	}

	return users, nil
}

// findByID loads a single user through db.
func findByID(context context.Context, db querier, id int64) (*User, error) {
	query := selectUsers(fmt.Sprintf("WHERE u.%s = $1", schema.Users.ID))

	user, err := scanUser(db.QueryRow(context, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundID("User", id)
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_user")
	}

	return user, nil
}

// # Entity Repository

func (repository *PostgresRepository) FindAll(context context.Context) ([]*User, error) {
	return queryUsers(context, repository.pool, "list_users", selectUsers(""))
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*User, error) {
	return findByID(context, repository.pool, id)
}

func (repository *PostgresRepository) Exists(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.Users.Table, schema.Users.ID)

	var found bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&found); err != nil {
		return false, dberr.Wrap(err, "user_exists")
	}
	return found, nil
}

/*
Create inserts a new user and returns it with the assigned id.

Parameters:
  - context: context.Context
  - user: *User (validated and normalised by the service)

Returns:
  - *User: The stored user with an empty friend list
  - error: Database execution errors
*/
func (repository *PostgresRepository) Create(context context.Context, user *User) (*User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s;
	`,
		schema.Users.Table,
		schema.Users.Email,
		schema.Users.Login,
		schema.Users.Name,
		schema.Users.Birthday,
		schema.Users.ID,
	)

	created := user.clone()
	created.Friends = []int64{}

	err := repository.pool.QueryRow(context, query,
		user.Email,
		user.Login,
		user.Name,
		postgres.ToDate(user.Birthday),
	).Scan(&created.ID)
	if err != nil {
		return nil, dberr.Wrap(err, "create_user")
	}

	return created, nil
}

/*
Update replaces email, login, name and birthday of an existing user.

Returns:
  - *User: The stored user including its current friend ids
  - error: NOT_FOUND when the id is unknown
*/
func (repository *PostgresRepository) Update(context context.Context, user *User) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4
		WHERE %s = $5;
	`,
		schema.Users.Table,
		schema.Users.Email,
		schema.Users.Login,
		schema.Users.Name,
		schema.Users.Birthday,
		schema.Users.ID,
	)

	var updated *User
	err := postgres.WithTx(context, repository.pool, "update_user", func(tx pgx.Tx) error {
		tag, err := tx.Exec(context, query, user.Email, user.Login, user.Name, postgres.ToDate(user.Birthday), user.ID)
		if err != nil {
			return dberr.Wrap(err, "update_user")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFoundID("User", user.ID)
		}

		updated, err = findByID(context, tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// # Relationship Store

// mustExistBoth checks two users inside tx, reporting the first missing one.
func mustExistBoth(context context.Context, tx pgx.Tx, firstID, secondID int64) error {
	if err := postgres.MustExist(context, tx, schema.Users.Table, schema.Users.ID, "User", firstID); err != nil {
		return err
	}
	return postgres.MustExist(context, tx, schema.Users.Table, schema.Users.ID, "User", secondID)
}

func (repository *PostgresRepository) AddFriend(context context.Context, userID, friendID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (%s, %s) DO NOTHING;
	`,
		schema.UserFriendship.Table,
		schema.UserFriendship.UserID,
		schema.UserFriendship.FriendID,
		schema.UserFriendship.Confirmed,
		schema.UserFriendship.UserID,
		schema.UserFriendship.FriendID,
	)

	return postgres.WithTx(context, repository.pool, "add_friend", func(tx pgx.Tx) error {
		if err := mustExistBoth(context, tx, userID, friendID); err != nil {
			return err
		}
		_, err := tx.Exec(context, query, userID, friendID)
		return dberr.Wrap(err, "add_friend")
	})
}

func (repository *PostgresRepository) RemoveFriend(context context.Context, userID, friendID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2;`,
		schema.UserFriendship.Table,
		schema.UserFriendship.UserID,
		schema.UserFriendship.FriendID,
	)

	return postgres.WithTx(context, repository.pool, "remove_friend", func(tx pgx.Tx) error {
		if err := mustExistBoth(context, tx, userID, friendID); err != nil {
			return err
		}
		_, err := tx.Exec(context, query, userID, friendID)
		return dberr.Wrap(err, "remove_friend")
	})
}

func (repository *PostgresRepository) GetFriends(context context.Context, userID int64) ([]*User, error) {
	query := selectUsers(fmt.Sprintf(`
		JOIN %s e ON e.%s = u.%s
		WHERE e.%s = $1`,
		schema.UserFriendship.Table,
		schema.UserFriendship.FriendID, schema.Users.ID,
		schema.UserFriendship.UserID,
	))

	var friends []*User
	err := postgres.WithTx(context, repository.pool, "get_friends", func(tx pgx.Tx) error {
		if err := postgres.MustExist(context, tx, schema.Users.Table, schema.Users.ID, "User", userID); err != nil {
			return err
		}

		var err error
		friends, err = queryUsers(context, tx, "get_friends", query, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return friends, nil
}

/*
GetCommonFriends returns the intersection of two users' outgoing friend sets.

Description: The set operation runs in SQL with INTERSECT, so the result is
symmetric in its arguments.
*/
func (repository *PostgresRepository) GetCommonFriends(context context.Context, userID, otherID int64) ([]*User, error) {
	query := selectUsers(fmt.Sprintf(`
		WHERE u.%s IN (
			SELECT %s FROM %s WHERE %s = $1
			INTERSECT
			SELECT %s FROM %s WHERE %s = $2
		)`,
		schema.Users.ID,
		schema.UserFriendship.FriendID, schema.UserFriendship.Table, schema.UserFriendship.UserID,
		schema.UserFriendship.FriendID, schema.UserFriendship.Table, schema.UserFriendship.UserID,
	))

	var common []*User
	err := postgres.WithTx(context, repository.pool, "get_common_friends", func(tx pgx.Tx) error {
		if err := mustExistBoth(context, tx, userID, otherID); err != nil {
			return err
		}

		var err error
		common, err = queryUsers(context, tx, "get_common_friends", query, userID, otherID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return common, nil
}
