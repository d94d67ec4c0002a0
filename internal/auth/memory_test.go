package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lireddit-server/internal/db"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	u, err := repo.Create(ctx, "ben", "h")
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	_, err = repo.Create(ctx, "ben", "other")
	require.ErrorIs(t, err, db.ErrConflict)

	got, err := repo.GetByUsername(ctx, "ben")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, 2)
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	hasher, err := NewPasswordHasher(AlgorithmArgon2id)
	require.NoError(t, err)
	svc, err := NewService(NewMemoryUserRepository(), hasher)
	require.NoError(t, err)

	res, err := svc.Register(ctx, &fakeSession{}, Credentials{"ben", "hunter2"})
	require.NoError(t, err)
	require.NotNil(t, res.User)

	res, err = svc.Register(ctx, &fakeSession{}, Credentials{"ben", "different"})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, KindConflict, res.Errors[0].Kind)

	sess := &fakeSession{}
	res, err = svc.Login(ctx, sess, Credentials{"ben", "hunter2"})
	require.NoError(t, err)
	require.NotNil(t, res.User)

	me, err := svc.Me(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "ben", me.Username)
}
