package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Gin adapts net/http middleware to Gin. When mw answers the request
// itself without calling the next handler, the Gin chain is aborted.
func Gin(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false

		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})

		mw(next).ServeHTTP(c.Writer, c.Request)

		if !called {
			c.Abort()
		}
	}
}

// GinSession loads the session for every request routed through Gin.
func GinSession(s *SessionMiddleware) gin.HandlerFunc {
	return Gin(s.LoadSession)
}
