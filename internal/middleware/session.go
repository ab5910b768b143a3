package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// SessionCookie identifies the browser session that owns a cart.
	SessionCookie = "atelier_session"

	// Identity cookies are set by the authentication layer, which sits in
	// front of this service. An absent user cookie means a guest session.
	userCookie        = "atelier_user"
	emailCookie       = "atelier_email"
	displayNameCookie = "atelier_display_name"

	sessionContextKey contextKey = "session"
)

// Session carries the caller's session and, when signed in, their identity.
type Session struct {
	ID          string
	UserID      string
	Email       string
	DisplayName string
}

// SignedIn reports whether the session has an authenticated user.
func (s Session) SignedIn() bool {
	return s.UserID != ""
}

// WithSession resolves the caller's session, issuing a session cookie on
// first contact, and puts it on the request context.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := Session{
			ID:          cookieValue(r, SessionCookie),
			UserID:      cookieValue(r, userCookie),
			Email:       cookieValue(r, emailCookie),
			DisplayName: cookieValue(r, displayNameCookie),
		}

		if sess.ID == "" {
			sess.ID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSession retrieves the session from the context.
func GetSession(ctx context.Context) Session {
	if s, ok := ctx.Value(sessionContextKey).(Session); ok {
		return s
	}
	return Session{}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
