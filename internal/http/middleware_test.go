package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
)

func TestRequireRole(t *testing.T) {
	auth := sessionsByCookie(map[string]domainauth.Role{
		"admin": domainauth.RoleAdmin,
		"user":  domainauth.RoleUser,
		"guest": domainauth.RoleGuest,
	})

	var seen *domainauth.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		required domainauth.Role
		session  string
		want     int
	}{
		{"anonymous", domainauth.RoleUser, "", http.StatusUnauthorized},
		{"unknown session", domainauth.RoleUser, "stale", http.StatusUnauthorized},
		{"guest below user", domainauth.RoleUser, "guest", http.StatusForbidden},
		{"user ok", domainauth.RoleUser, "user", http.StatusNoContent},
		{"admin ok for user", domainauth.RoleUser, "admin", http.StatusNoContent},
		{"user below admin", domainauth.RoleAdmin, "user", http.StatusForbidden},
		{"admin ok", domainauth.RoleAdmin, "admin", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.session != "" {
				withSession(req, tt.session)
			}
			w := httptest.NewRecorder()
			RequireRole(auth, tt.required)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusNoContent {
				require.NotNil(t, seen)
				assert.Equal(t, tt.session, seen.ID)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var got string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, got)
	assert.Equal(t, got, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", got)
}

func TestRecover(t *testing.T) {
	h := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 50, 0},
		{"?limit=10&offset=20", 10, 20},
		{"?limit=0&offset=-4", 1, 0},
		{"?limit=9999", 500, 0},
		{"?limit=abc", 50, 0},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
		l, o := ParseLimitOffset(req, defaultListLimit, maxListLimit)
		assert.Equal(t, tt.wantLimit, l, tt.query)
		assert.Equal(t, tt.wantOffset, o, tt.query)
	}
}
