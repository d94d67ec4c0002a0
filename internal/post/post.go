// Package post holds the Post entity and its CRUD operations.
package post

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"

	"lireddit-server/internal/db"
)

// UndefinedTitle is the literal some clients send in place of an absent
// title. UpdatePost treats it as "leave the title unchanged".
const UndefinedTitle = "undefined"

type Post struct {
	ID        int
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository persists posts. Get and UpdateTitle report a missing row
// as db.ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]*Post, error)
	Get(ctx context.Context, id int) (*Post, error)
	Create(ctx context.Context, title string) (*Post, error)
	UpdateTitle(ctx context.Context, id int, title string) (*Post, error)
	Delete(ctx context.Context, id int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, oops.Code("POST_INVALID_CONFIG").Errorf("post repository is required")
	}
	return &Service{repo: repo}, nil
}

// Posts returns every post in store order.
func (s *Service) Posts(ctx context.Context) ([]*Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*Post{}
	}
	return posts, nil
}

// Post returns the post with id, or nil when there is none.
func (s *Service) Post(ctx context.Context, id int) (*Post, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) CreatePost(ctx context.Context, title string) (*Post, error) {
	return s.repo.Create(ctx, title)
}

// UpdatePost sets the title of an existing post. A nil title, or the
// UndefinedTitle literal, leaves the post as it is. Returns nil when the
// post does not exist.
func (s *Service) UpdatePost(ctx context.Context, id int, title *string) (*Post, error) {
	if title == nil || *title == UndefinedTitle {
		return s.Post(ctx, id)
	}

	p, err := s.repo.UpdateTitle(ctx, id, *title)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePost removes the post with id. Deleting a missing post succeeds.
func (s *Service) DeletePost(ctx context.Context, id int) (bool, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}
