package auth

import (
	"context"
	"time"
)

// User is a registered account. PasswordHash never leaves the service.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository persists users. Implementations report a taken username
// as db.ErrConflict and a missing user as db.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
