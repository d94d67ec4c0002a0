//go:build integration

package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"lireddit-server/internal/auth"
	authpg "lireddit-server/internal/auth/postgres"
	"lireddit-server/internal/db"
	"lireddit-server/internal/post"
	postpg "lireddit-server/internal/post/postgres"
)

type noSession struct{ userID *int }

func (s *noSession) UserID() (int, bool) {
	if s.userID == nil {
		return 0, false
	}
	return *s.userID, true
}

func (s *noSession) SetUserID(_ context.Context, id int) error {
	s.userID = &id
	return nil
}

func (s *noSession) Destroy(context.Context) error {
	s.userID = nil
	return nil
}

func TestPostgres_FullCycle(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("lireddit"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	require.NoError(t, err)
	defer func() { _ = pgContainer.Terminate(ctx) }()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrator, err := db.NewMigrator(ctx, connStr)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
	require.NoError(t, migrator.Close())

	pool, err := db.Open(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	hasher, err := auth.NewPasswordHasher(auth.AlgorithmArgon2id)
	require.NoError(t, err)
	authSvc, err := auth.NewService(authpg.NewUserRepository(pool), hasher)
	require.NoError(t, err)

	sess := &noSession{}
	res, err := authSvc.Register(ctx, sess, auth.Credentials{Username: "ben", Password: "hunter2"})
	require.NoError(t, err)
	require.NotNil(t, res.User)

	res, err = authSvc.Register(ctx, &noSession{}, auth.Credentials{Username: "ben", Password: "other"})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, auth.KindConflict, res.Errors[0].Kind)

	res, err = authSvc.Login(ctx, &noSession{}, auth.Credentials{Username: "ben", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotNil(t, res.User)

	me, err := authSvc.Me(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "ben", me.Username)

	postSvc, err := post.NewService(postpg.NewPostRepository(pool))
	require.NoError(t, err)

	p, err := postSvc.CreatePost(ctx, "first")
	require.NoError(t, err)

	title := "renamed"
	updated, err := postSvc.UpdatePost(ctx, p.ID, &title)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.False(t, updated.UpdatedAt.Before(p.UpdatedAt))

	ok, err := postSvc.DeletePost(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = postSvc.DeletePost(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	posts, err := postSvc.Posts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}
