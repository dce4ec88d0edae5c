package httptransport

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const sessionIDKey contextKey = "sessionId"

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// SessionCookie makes sure every request carries a session id. A missing or
// malformed cookie starts a new session.
func SessionCookie(opts CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(opts.Name); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     opts.Name,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionIDKey, id)))
		})
	}
}

// SessionID returns the session id set by SessionCookie.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}
