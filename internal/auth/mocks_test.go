package auth

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	args := m.Called(ctx, username, passwordHash)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) GetByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Verify(password, encodedHash string) (bool, error) {
	args := m.Called(password, encodedHash)
	return args.Bool(0), args.Error(1)
}

// fakeSession records what the service writes to the session.
type fakeSession struct {
	mu         sync.Mutex
	userID     *int
	setErr     error
	destroyErr error
	destroyed  bool
}

func (f *fakeSession) UserID() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userID == nil {
		return 0, false
	}
	return *f.userID, true
}

func (f *fakeSession) SetUserID(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.userID = &id
	return nil
}

func (f *fakeSession) Destroy(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = true
	f.userID = nil
	return f.destroyErr
}
