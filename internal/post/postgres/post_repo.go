package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"lireddit-server/internal/db"
	"lireddit-server/internal/post"
)

const postColumns = `id, title, created_at, updated_at`

// PostRepository implements post.Repository using PostgreSQL.
type PostRepository struct {
	pool db.Pool
}

var _ post.Repository = (*PostRepository)(nil)

func NewPostRepository(pool db.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) List(ctx context.Context) ([]*post.Post, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM post ORDER BY id`)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	posts := make([]*post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, oops.Code("POST_SCAN_FAILED").Wrap(err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("POST_LIST_FAILED").Wrap(err)
	}
	return posts, nil
}

func (r *PostRepository) Get(ctx context.Context, id int) (*post.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM post WHERE id = $1`, id)

	p, err := scanPost(row)
	if db.IsNoRows(err) {
		return nil, oops.Code("POST_NOT_FOUND").With("id", id).Wrap(db.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_GET_FAILED").With("id", id).Wrap(err)
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, title string) (*post.Post, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO post (title)
		VALUES ($1)
		RETURNING `+postColumns,
		title,
	)

	p, err := scanPost(row)
	if err != nil {
		return nil, oops.Code("POST_CREATE_FAILED").With("title", title).Wrap(err)
	}
	return p, nil
}

// UpdateTitle sets the title and bumps updated_at in one statement.
func (r *PostRepository) UpdateTitle(ctx context.Context, id int, title string) (*post.Post, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE post SET title = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+postColumns,
		id, title,
	)

	p, err := scanPost(row)
	if db.IsNoRows(err) {
		return nil, oops.Code("POST_NOT_FOUND").With("id", id).Wrap(db.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_UPDATE_FAILED").With("id", id).Wrap(err)
	}
	return p, nil
}

// Delete removes the row if present. Zero affected rows is not an error.
func (r *PostRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM post WHERE id = $1`, id); err != nil {
		return oops.Code("POST_DELETE_FAILED").With("id", id).Wrap(err)
	}
	return nil
}

func scanPost(row pgx.Row) (*post.Post, error) {
	var p post.Post
	if err := row.Scan(&p.ID, &p.Title, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
