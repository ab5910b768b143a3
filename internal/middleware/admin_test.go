package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/corinapavel/atelier/internal/middleware"
	"github.com/stretchr/testify/assert"
)

func adminProtected(token string) http.Handler {
	return middleware.RequireAdminToken(token)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireAdminToken(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		sent     string
		want     int
	}{
		{"matching token", "secret", "secret", http.StatusOK},
		{"wrong token", "secret", "guess", http.StatusUnauthorized},
		{"missing token", "secret", "", http.StatusUnauthorized},
		{"check disabled when unconfigured", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
			if tt.sent != "" {
				req.Header.Set(middleware.AdminTokenHeader, tt.sent)
			}
			rec := httptest.NewRecorder()

			adminProtected(tt.expected).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
