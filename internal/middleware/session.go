package middleware

import (
	"net/http"

	"lireddit-server/internal/logger"
	"lireddit-server/internal/session"
)

// SessionMiddleware attaches the request session to every request.
// Anonymous requests get an empty session; nothing is rejected here.
type SessionMiddleware struct {
	Manager *session.Manager
}

func NewSessionMiddleware(manager *session.Manager) *SessionMiddleware {
	return &SessionMiddleware{Manager: manager}
}

func (s *SessionMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Manager.Load(w, r)
		if err != nil {
			logger.LogError("load session", err, map[string]any{"path": r.URL.Path})
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.WithRequest(r.Context(), sess)))
	})
}
