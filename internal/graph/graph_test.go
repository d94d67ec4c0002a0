package graph

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/graphql-go/graphql"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lireddit-server/internal/auth"
	"lireddit-server/internal/post"
	"lireddit-server/internal/session"
)

type harness struct {
	schema  graphql.Schema
	manager *session.Manager
	redis   *miniredis.Miniredis
}

func newHarness(t *testing.T, posts post.Repository) *harness {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hasher, err := auth.NewPasswordHasher(auth.AlgorithmBcrypt)
	require.NoError(t, err)
	authSvc, err := auth.NewService(auth.NewMemoryUserRepository(), hasher)
	require.NoError(t, err)
	if posts == nil {
		posts = post.NewMemoryRepository()
	}
	postSvc, err := post.NewService(posts)
	require.NoError(t, err)

	schema, err := NewSchema(&Resolver{Auth: authSvc, Posts: postSvc})
	require.NoError(t, err)

	store := session.NewRedisStore(client, session.DefaultPrefix, 0)
	return &harness{
		schema:  schema,
		manager: session.NewManager(store, session.CookieOptions{}),
		redis:   mr,
	}
}

// do executes query as a request carrying cookie (may be empty) and
// returns the result plus the response recorder holding Set-Cookie.
func (h *harness) do(t *testing.T, cookie, query string, vars map[string]any) (*graphql.Result, *httptest.ResponseRecorder) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: h.manager.CookieName(), Value: cookie})
	}
	sess, err := h.manager.Load(rec, req)
	require.NoError(t, err)

	res := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        session.WithRequest(context.Background(), sess),
	})
	return res, rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName && c.MaxAge >= 0 {
			return c.Value
		}
	}
	t.Fatal("no session cookie issued")
	return ""
}

func data(t *testing.T, res *graphql.Result) map[string]any {
	t.Helper()
	require.Empty(t, res.Errors)
	d, ok := res.Data.(map[string]any)
	require.True(t, ok)
	return d
}

const registerMutation = `mutation($u: String!, $p: String!) {
	register(options: {username: $u, password: $p}) {
		errors { field message }
		user { id username }
	}
}`

const loginMutation = `mutation($u: String!, $p: String!) {
	login(options: {username: $u, password: $p}) {
		errors { field message }
		user { id username }
	}
}`

func TestHello(t *testing.T) {
	h := newHarness(t, nil)
	res, _ := h.do(t, "", `{ hello }`, nil)
	assert.Equal(t, "hello world", data(t, res)["hello"])
}

func TestRegisterLoginMeLogout(t *testing.T) {
	h := newHarness(t, nil)

	res, rec := h.do(t, "", registerMutation, map[string]any{"u": "ben", "p": "hunter2"})
	reg := data(t, res)["register"].(map[string]any)
	assert.Nil(t, reg["errors"])
	assert.Equal(t, "ben", reg["user"].(map[string]any)["username"])
	cookie := sessionCookie(t, rec)
	assert.True(t, h.redis.Exists(session.DefaultPrefix+cookie))

	res, _ = h.do(t, cookie, `{ me { username createdAt } }`, nil)
	me := data(t, res)["me"].(map[string]any)
	assert.Equal(t, "ben", me["username"])
	assert.NotEmpty(t, me["createdAt"])

	res, _ = h.do(t, cookie, `mutation { logout }`, nil)
	assert.Equal(t, true, data(t, res)["logout"])
	assert.False(t, h.redis.Exists(session.DefaultPrefix+cookie))

	res, _ = h.do(t, cookie, `{ me { username } }`, nil)
	assert.Nil(t, data(t, res)["me"])

	res, rec = h.do(t, "", loginMutation, map[string]any{"u": "ben", "p": "hunter2"})
	login := data(t, res)["login"].(map[string]any)
	assert.Nil(t, login["errors"])
	assert.NotEqual(t, cookie, sessionCookie(t, rec))
}

func TestRegister_FieldErrors(t *testing.T) {
	h := newHarness(t, nil)

	res, rec := h.do(t, "", registerMutation, map[string]any{"u": "ab", "p": "hunter2"})
	reg := data(t, res)["register"].(map[string]any)
	assert.Nil(t, reg["user"])
	assert.Equal(t, []any{map[string]any{"field": "username", "message": "username is too short"}}, reg["errors"])
	assert.Empty(t, rec.Result().Cookies())

	_, _ = h.do(t, "", registerMutation, map[string]any{"u": "ben", "p": "hunter2"})
	res, _ = h.do(t, "", registerMutation, map[string]any{"u": "ben", "p": "other"})
	reg = data(t, res)["register"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"field": "username", "message": "username already exists"}}, reg["errors"])
}

func TestLogin_FieldErrors(t *testing.T) {
	h := newHarness(t, nil)
	_, _ = h.do(t, "", registerMutation, map[string]any{"u": "ben", "p": "hunter2"})

	res, _ := h.do(t, "", loginMutation, map[string]any{"u": "ghost", "p": "hunter2"})
	login := data(t, res)["login"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"field": "username", "message": "username does not exist"}}, login["errors"])

	res, rec := h.do(t, "", loginMutation, map[string]any{"u": "ben", "p": "wrong"})
	login = data(t, res)["login"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"field": "password", "message": "failed login"}}, login["errors"])
	assert.Nil(t, login["user"])
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogout_Anonymous(t *testing.T) {
	h := newHarness(t, nil)
	res, _ := h.do(t, "", `mutation { logout }`, nil)
	assert.Equal(t, true, data(t, res)["logout"])
}

func TestPostCRUD(t *testing.T) {
	h := newHarness(t, nil)

	res, _ := h.do(t, "", `{ posts { id } }`, nil)
	assert.Equal(t, []any{}, data(t, res)["posts"])

	res, _ = h.do(t, "", `mutation { createPost(title: "first") { id title } }`, nil)
	created := data(t, res)["createPost"].(map[string]any)
	assert.Equal(t, "first", created["title"])
	id := created["id"]

	res, _ = h.do(t, "", `query($id: Int!) { post(id: $id) { title } }`, map[string]any{"id": id})
	assert.Equal(t, map[string]any{"title": "first"}, data(t, res)["post"])

	res, _ = h.do(t, "", `mutation($id: Int!) { updatePost(id: $id, title: "undefined") { title } }`, map[string]any{"id": id})
	assert.Equal(t, map[string]any{"title": "first"}, data(t, res)["updatePost"])

	res, _ = h.do(t, "", `mutation($id: Int!) { updatePost(id: $id) { title } }`, map[string]any{"id": id})
	assert.Equal(t, map[string]any{"title": "first"}, data(t, res)["updatePost"])

	res, _ = h.do(t, "", `mutation($id: Int!) { updatePost(id: $id, title: "second") { title } }`, map[string]any{"id": id})
	assert.Equal(t, map[string]any{"title": "second"}, data(t, res)["updatePost"])

	res, _ = h.do(t, "", `mutation { updatePost(id: 999, title: "x") { title } }`, nil)
	assert.Nil(t, data(t, res)["updatePost"])

	res, _ = h.do(t, "", `mutation($id: Int!) { deletePost(id: $id) }`, map[string]any{"id": id})
	assert.Equal(t, true, data(t, res)["deletePost"])

	res, _ = h.do(t, "", `mutation { deletePost(id: 999) }`, nil)
	assert.Equal(t, true, data(t, res)["deletePost"])

	res, _ = h.do(t, "", `query($id: Int!) { post(id: $id) { title } }`, map[string]any{"id": id})
	assert.Nil(t, data(t, res)["post"])
}

type failingPosts struct {
	post.MemoryRepository
}

func (*failingPosts) List(context.Context) ([]*post.Post, error) {
	return nil, errors.New("pq: connection refused to 10.0.0.5")
}

func TestUnexpectedErrorsAreGeneric(t *testing.T) {
	h := newHarness(t, &failingPosts{})

	res, _ := h.do(t, "", `{ posts { id } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ErrInternal.Error(), res.Errors[0].Message)
	assert.False(t, strings.Contains(res.Errors[0].Message, "10.0.0.5"))
}

func TestMissingSessionIsInternalError(t *testing.T) {
	h := newHarness(t, nil)

	res := graphql.Do(graphql.Params{
		Schema:        h.schema,
		RequestString: `{ me { id } }`,
		Context:       context.Background(),
	})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ErrInternal.Error(), res.Errors[0].Message)
}

func TestNewHandler_ServesQueries(t *testing.T) {
	h := newHarness(t, nil)
	srv := NewHandler(h.schema, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ hello }"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hello world"`)
}
