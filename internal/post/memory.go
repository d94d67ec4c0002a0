package post

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/oops"

	"lireddit-server/internal/db"
)

// MemoryRepository is an in-process Repository. It backs tests and local
// runs without Postgres.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int
	posts  map[int]Post
	now    func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		posts:  make(map[int]Post),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) List(_ context.Context) ([]*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Post, 0, len(r.posts))
	for _, p := range r.posts {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id int) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, oops.Code("POST_NOT_FOUND").With("id", id).Wrap(db.ErrNotFound)
	}
	return &p, nil
}

func (r *MemoryRepository) Create(_ context.Context, title string) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	p := Post{ID: r.nextID, Title: title, CreatedAt: now, UpdatedAt: now}
	r.posts[p.ID] = p
	r.nextID++
	return &p, nil
}

func (r *MemoryRepository) UpdateTitle(_ context.Context, id int, title string) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, oops.Code("POST_NOT_FOUND").With("id", id).Wrap(db.ErrNotFound)
	}
	p.Title = title
	p.UpdatedAt = r.now()
	r.posts[id] = p
	return &p, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	return nil
}
