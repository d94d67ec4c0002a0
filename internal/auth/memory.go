package auth

import (
	"context"
	"sync"
	"time"

	"github.com/samber/oops"

	"lireddit-server/internal/db"
)

// MemoryUserRepository is an in-process UserRepository with the same
// uniqueness rule as the Postgres schema.
type MemoryUserRepository struct {
	mu         sync.Mutex
	nextID     int
	byID       map[int]User
	byUsername map[string]int
}

var _ UserRepository = (*MemoryUserRepository)(nil)

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		nextID:     1,
		byID:       make(map[int]User),
		byUsername: make(map[string]int),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, username, passwordHash string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[username]; taken {
		return nil, oops.Code("USER_CREATE_CONFLICT").With("username", username).Wrap(db.ErrConflict)
	}

	now := time.Now().UTC()
	u := User{ID: r.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	r.byID[u.ID] = u
	r.byUsername[username] = u.ID
	r.nextID++
	return &u, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id).Wrap(db.ErrNotFound)
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").With("username", username).Wrap(db.ErrNotFound)
	}
	u := r.byID[id]
	return &u, nil
}
