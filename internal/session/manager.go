package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/samber/oops"
)

// Manager binds the session store to HTTP requests.
type Manager struct {
	store  Store
	cookie CookieOptions
	now    func() time.Time
	newID  func() (string, error)
}

func NewManager(store Store, cookie CookieOptions) *Manager {
	return &Manager{
		store:  store,
		cookie: cookie.normalize(),
		now:    time.Now,
		newID:  GenerateID,
	}
}

// CookieName is the name of the cookie carrying the session identifier.
func (m *Manager) CookieName() string {
	return m.cookie.Name
}

// Load resolves the session named by the request cookie. A missing cookie
// or an identifier the store no longer knows yields an empty session that
// is only persisted once something is written to it.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (*Request, error) {
	req := &Request{manager: m, w: w}

	cookie, err := r.Cookie(m.cookie.Name)
	if err != nil || cookie.Value == "" {
		return req, nil
	}

	sess, err := m.store.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		req.current = *sess
		req.persisted = true
	}
	return req, nil
}

// Request is the session state of a single HTTP request.
type Request struct {
	manager *Manager
	w       http.ResponseWriter

	mu        sync.Mutex
	current   Session
	persisted bool
}

// ID returns the session identifier, empty until the session is saved.
func (r *Request) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.ID
}

// UserID returns the logged-in user, if any.
func (r *Request) UserID() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current.Data.UserID == nil {
		return 0, false
	}
	return *r.current.Data.UserID, true
}

// SetUserID records the logged-in user, persisting the session and issuing
// the cookie.
func (r *Request) SetUserID(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.current
	if next.ID == "" {
		id, err := r.manager.newID()
		if err != nil {
			return oops.Code("SESSION_ID_FAILED").Wrap(err)
		}
		next.ID = id
	}
	next.Data.UserID = &userID

	if err := r.manager.store.Save(ctx, next); err != nil {
		return err
	}

	r.current = next
	r.persisted = true
	SetCookie(r.w, next.ID, r.manager.now(), r.manager.cookie)
	return nil
}

// Destroy removes the stored session and clears the client cookie. The
// cookie is cleared even when the store delete fails.
func (r *Request) Destroy(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.persisted && r.current.ID != "" {
		err = r.manager.store.Delete(ctx, r.current.ID)
	}

	ClearCookie(r.w, r.manager.cookie)
	r.current = Session{}
	r.persisted = false
	return err
}

type requestKey struct{}

// WithRequest attaches the request session to ctx.
func WithRequest(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// FromContext extracts the request session attached by WithRequest.
func FromContext(ctx context.Context) (*Request, bool) {
	r, ok := ctx.Value(requestKey{}).(*Request)
	return r, ok && r != nil
}
