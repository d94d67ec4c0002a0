package graph

import (
	"context"
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/samber/oops"

	"lireddit-server/internal/auth"
	"lireddit-server/internal/logger"
	"lireddit-server/internal/post"
	"lireddit-server/internal/session"
)

// ErrInternal is the only error detail clients see for unexpected failures.
var ErrInternal = errors.New("internal server error")

// Resolver carries the services behind the schema. It is built once at
// startup and shared by every request.
type Resolver struct {
	Auth  *auth.Service
	Posts *post.Service
}

func (r *Resolver) hello(graphql.ResolveParams) (any, error) {
	return "hello world", nil
}

func (r *Resolver) posts(p graphql.ResolveParams) (any, error) {
	posts, err := r.Posts.Posts(p.Context)
	if err != nil {
		return nil, internal("posts", err)
	}

	out := make([]map[string]any, 0, len(posts))
	for _, pst := range posts {
		out = append(out, postObject(pst))
	}
	return out, nil
}

func (r *Resolver) post(p graphql.ResolveParams) (any, error) {
	id, _ := p.Args["id"].(int)

	pst, err := r.Posts.Post(p.Context, id)
	if err != nil {
		return nil, internal("post", err)
	}
	if pst == nil {
		return nil, nil
	}
	return postObject(pst), nil
}

func (r *Resolver) createPost(p graphql.ResolveParams) (any, error) {
	title, _ := p.Args["title"].(string)

	pst, err := r.Posts.CreatePost(p.Context, title)
	if err != nil {
		return nil, internal("createPost", err)
	}
	return postObject(pst), nil
}

func (r *Resolver) updatePost(p graphql.ResolveParams) (any, error) {
	id, _ := p.Args["id"].(int)

	var title *string
	if t, ok := p.Args["title"].(string); ok {
		title = &t
	}

	pst, err := r.Posts.UpdatePost(p.Context, id, title)
	if err != nil {
		return nil, internal("updatePost", err)
	}
	if pst == nil {
		return nil, nil
	}
	return postObject(pst), nil
}

func (r *Resolver) deletePost(p graphql.ResolveParams) (any, error) {
	id, _ := p.Args["id"].(int)

	ok, err := r.Posts.DeletePost(p.Context, id)
	if err != nil {
		return nil, internal("deletePost", err)
	}
	return ok, nil
}

func (r *Resolver) me(p graphql.ResolveParams) (any, error) {
	sess, err := requestSession(p.Context)
	if err != nil {
		return nil, internal("me", err)
	}

	user, err := r.Auth.Me(p.Context, sess)
	if err != nil {
		return nil, internal("me", err)
	}
	if user == nil {
		return nil, nil
	}
	return userObject(user), nil
}

func (r *Resolver) register(p graphql.ResolveParams) (any, error) {
	sess, err := requestSession(p.Context)
	if err != nil {
		return nil, internal("register", err)
	}

	res, err := r.Auth.Register(p.Context, sess, credentialsArg(p.Args))
	if err != nil {
		return nil, internal("register", err)
	}
	return userResponse(res), nil
}

func (r *Resolver) login(p graphql.ResolveParams) (any, error) {
	sess, err := requestSession(p.Context)
	if err != nil {
		return nil, internal("login", err)
	}

	res, err := r.Auth.Login(p.Context, sess, credentialsArg(p.Args))
	if err != nil {
		return nil, internal("login", err)
	}
	return userResponse(res), nil
}

func (r *Resolver) logout(p graphql.ResolveParams) (any, error) {
	sess, err := requestSession(p.Context)
	if err != nil {
		return nil, internal("logout", err)
	}
	return r.Auth.Logout(p.Context, sess), nil
}

func requestSession(ctx context.Context) (*session.Request, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, oops.Code("SESSION_MISSING").Errorf("no session attached to request")
	}
	return sess, nil
}

func internal(field string, err error) error {
	logger.LogError("graphql resolver failed", err, map[string]any{"field": field})
	return ErrInternal
}

func credentialsArg(args map[string]any) auth.Credentials {
	opts, _ := args["options"].(map[string]any)
	username, _ := opts["username"].(string)
	password, _ := opts["password"].(string)
	return auth.Credentials{Username: username, Password: password}
}

func userResponse(res auth.Result) map[string]any {
	out := map[string]any{"errors": nil, "user": nil}
	if len(res.Errors) > 0 {
		errs := make([]map[string]any, 0, len(res.Errors))
		for _, fe := range res.Errors {
			errs = append(errs, map[string]any{"field": fe.Field, "message": fe.Message})
		}
		out["errors"] = errs
	}
	if res.User != nil {
		out["user"] = userObject(res.User)
	}
	return out
}

func userObject(u *auth.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"createdAt": formatTime(u.CreatedAt),
		"updatedAt": formatTime(u.UpdatedAt),
	}
}

func postObject(p *post.Post) map[string]any {
	return map[string]any{
		"id":        p.ID,
		"title":     p.Title,
		"createdAt": formatTime(p.CreatedAt),
		"updatedAt": formatTime(p.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
