package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"lireddit-server/internal/auth"
	"lireddit-server/internal/db"
)

const userColumns = `id, username, password, created_at, updated_at`

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	pool db.Pool
}

var _ auth.UserRepository = (*UserRepository)(nil)

func NewUserRepository(pool db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a user. A taken username is reported as db.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO "user" (username, password)
		VALUES ($1, $2)
		RETURNING `+userColumns,
		username, passwordHash,
	)

	user, err := scanUser(row)
	if db.IsUniqueViolation(err) {
		return nil, oops.Code("USER_CREATE_CONFLICT").
			With("username", username).
			Wrap(db.ErrConflict)
	}
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", username).
			Wrap(err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, id)

	user, err := scanUser(row)
	if db.IsNoRows(err) {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id).Wrap(db.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").With("id", id).Wrap(err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE username = $1`, username)

	user, err := scanUser(row)
	if db.IsNoRows(err) {
		return nil, oops.Code("USER_NOT_FOUND").With("username", username).Wrap(db.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_USERNAME_FAILED").With("username", username).Wrap(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
