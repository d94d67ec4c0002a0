package session

import (
	"context"
)

// Data is the payload kept server-side for a session.
type Data struct {
	UserID *int `json:"userId,omitempty"`
}

// Session pairs the opaque client-held identifier with its payload.
type Session struct {
	ID   string
	Data Data
}

// Store persists sessions by identifier.
// Get returns nil, nil when the identifier is unknown.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
