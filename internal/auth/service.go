package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"lireddit-server/internal/db"
	"lireddit-server/internal/logger"
	"lireddit-server/internal/metrics"
)

// Session is the per-request session state the Service reads and writes.
type Session interface {
	UserID() (int, bool)
	SetUserID(ctx context.Context, userID int) error
	Destroy(ctx context.Context) error
}

type Service struct {
	users   UserRepository
	hasher  Hasher
	metrics *metrics.Metrics
}

type Option func(*Service)

// WithMetrics records every outcome in the auth attempts counter.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(users UserRepository, hasher Hasher, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("password hasher is required")
	}

	s := &Service{users: users, hasher: hasher}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Register creates a user and logs the session in as that user.
func (s *Service) Register(ctx context.Context, sess Session, creds Credentials) (Result, error) {
	if fe := creds.Validate(); fe != nil {
		s.metrics.ObserveAuth("register", "validation")
		return Result{Errors: []FieldError{*fe}}, nil
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		logger.LogError("register: hash password", err, nil)
		s.metrics.ObserveAuth("register", "persistence")
		return failure(KindPersistence, "password", rootCause(err).Error()), nil
	}

	user, err := s.users.Create(ctx, creds.Username, hash)
	if errors.Is(err, db.ErrConflict) {
		s.metrics.ObserveAuth("register", "conflict")
		return failure(KindConflict, "username", msgUsernameTaken), nil
	}
	if err != nil {
		logger.LogError("register: create user", err, map[string]any{"username": creds.Username})
		s.metrics.ObserveAuth("register", "persistence")
		return failure(KindPersistence, "username", rootCause(err).Error()), nil
	}

	if err := sess.SetUserID(ctx, user.ID); err != nil {
		s.metrics.ObserveAuth("register", "error")
		return Result{}, oops.Code("AUTH_SESSION_WRITE_FAILED").With("user_id", user.ID).Wrap(err)
	}

	s.metrics.ObserveAuth("register", "success")
	return Result{User: user}, nil
}

// Login verifies the credentials and logs the session in.
func (s *Service) Login(ctx context.Context, sess Session, creds Credentials) (Result, error) {
	user, err := s.users.GetByUsername(ctx, creds.Username)
	if errors.Is(err, db.ErrNotFound) {
		s.metrics.ObserveAuth("login", "not_found")
		return failure(KindNotFound, "username", msgUnknownUsername), nil
	}
	if err != nil {
		s.metrics.ObserveAuth("login", "error")
		return Result{}, err
	}

	ok, err := s.hasher.Verify(creds.Password, user.PasswordHash)
	if err != nil {
		s.metrics.ObserveAuth("login", "error")
		return Result{}, oops.Code("AUTH_VERIFY_FAILED").With("user_id", user.ID).Wrap(err)
	}
	if !ok {
		s.metrics.ObserveAuth("login", "invalid_password")
		return failure(KindAuth, "password", msgFailedLogin), nil
	}

	if err := sess.SetUserID(ctx, user.ID); err != nil {
		s.metrics.ObserveAuth("login", "error")
		return Result{}, oops.Code("AUTH_SESSION_WRITE_FAILED").With("user_id", user.ID).Wrap(err)
	}

	s.metrics.ObserveAuth("login", "success")
	return Result{User: user}, nil
}

// Me returns the logged-in user, or nil when the session carries none or
// the user no longer exists.
func (s *Service) Me(ctx context.Context, sess Session) (*User, error) {
	userID, ok := sess.UserID()
	if !ok {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout destroys the session. Failures are logged and reported as false.
func (s *Service) Logout(ctx context.Context, sess Session) bool {
	if err := sess.Destroy(ctx); err != nil {
		logger.LogError("logout: destroy session", err, nil)
		s.metrics.ObserveAuth("logout", "error")
		return false
	}
	s.metrics.ObserveAuth("logout", "success")
	return true
}

// rootCause unwraps to the innermost error, whose message is the one
// reported back for rejected writes.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
