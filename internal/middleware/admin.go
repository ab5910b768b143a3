package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// AdminTokenHeader carries the shared back-office token.
const AdminTokenHeader = "X-Admin-Token"

// RequireAdminToken guards the admin surface with a shared token. An empty
// expected token disables the check (dev only; config enforces it in prod).
func RequireAdminToken(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(AdminTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{
						"code":    "unauthorized",
						"message": "Authentication required",
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
