package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ayush/concert-capstone/internal/auth"
)

// SessionGetter resolves a session id to a user id (0 when unknown).
type SessionGetter interface {
	Get(ctx context.Context, sessionID string) (int64, error)
}

// LoadSession reads the session cookie and, when it maps to a user, injects
// the user id into the request context. Anonymous requests pass through.
func LoadSession(sessions SessionGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				log.Warn().Err(err).Msg("session lookup failed")
				next.ServeHTTP(w, r)
				return
			}
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

// RequireAuth redirects anonymous requests to redirectTo. It expects
// LoadSession earlier in the chain.
func RequireAuth(redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.IsAuthenticated(r) {
				http.Redirect(w, r, redirectTo, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
