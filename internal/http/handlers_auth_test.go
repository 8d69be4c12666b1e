package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_Login(t *testing.T) {
	var gotCallback string
	svc := &mockAuthService{
		beginLoginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
			gotCallback = redirectURL
			return &service.BeginLoginResult{AuthURL: "https://idp.example.com/auth", State: "s1", Nonce: "n1"}, nil
		},
	}
	h := &AuthHandlers{Svc: svc, CallbackURL: "https://app.example.com/auth/callback"}

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/searches", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://idp.example.com/auth", w.Header().Get("Location"))
	assert.Equal(t, "https://app.example.com/auth/callback", gotCallback)

	resp := w.Result()
	defer resp.Body.Close()
	require.NotNil(t, cookieByName(resp, cookieOAuthState))
	assert.Equal(t, "s1", cookieByName(resp, cookieOAuthState).Value)
	assert.Equal(t, "n1", cookieByName(resp, cookieOAuthNonce).Value)
	assert.Equal(t, "/searches", cookieByName(resp, cookiePostLoginRedirect).Value)
}

func TestAuthHandlers_Login_RejectsOffsiteRedirect(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}
	for _, target := range []string{"https://evil.example", "//evil.example/x", "relative"} {
		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri="+target, nil))
		resp := w.Result()
		assert.Equal(t, "/", cookieByName(resp, cookiePostLoginRedirect).Value, target)
		resp.Body.Close()
	}
}

func TestAuthHandlers_Login_ServiceError(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		beginLoginFunc: func(context.Context, string) (*service.BeginLoginResult, error) {
			return nil, errors.New("idp down")
		},
	}, Logger: discardLogger()}

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthHandlers_Callback(t *testing.T) {
	var got service.CompleteLoginInput
	h := &AuthHandlers{Svc: &mockAuthService{
		completeLoginFunc: func(_ context.Context, in service.CompleteLoginInput) (*domainauth.Session, error) {
			got = in
			return (&mockAuthService{}).CompleteLogin(context.Background(), in)
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: cookieOAuthState, Value: "s1"})
	req.AddCookie(&http.Cookie{Name: cookieOAuthNonce, Value: "n1"})
	req.AddCookie(&http.Cookie{Name: cookiePostLoginRedirect, Value: "/searches"})
	w := httptest.NewRecorder()
	h.Callback(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/searches", w.Header().Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "abc", State: "s1", Nonce: "n1"}, got)

	resp := w.Result()
	defer resp.Body.Close()
	session := cookieByName(resp, cookieSession)
	require.NotNil(t, session)
	assert.Equal(t, "test-session-id", session.Value)
	assert.True(t, session.HttpOnly)
	assert.Positive(t, session.MaxAge)
}

func TestAuthHandlers_Callback_Validation(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	tests := []struct {
		name     string
		url      string
		state    string
		nonce    string
		wantCode string
	}{
		{"missing code", "/auth/callback?state=s1", "s1", "n1", "missing_code"},
		{"state mismatch", "/auth/callback?code=c&state=s1", "other", "n1", "invalid_state"},
		{"missing state cookie", "/auth/callback?code=c&state=s1", "", "n1", "invalid_state"},
		{"missing nonce", "/auth/callback?code=c&state=s1", "s1", "", "missing_nonce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.state != "" {
				req.AddCookie(&http.Cookie{Name: cookieOAuthState, Value: tt.state})
			}
			if tt.nonce != "" {
				req.AddCookie(&http.Cookie{Name: cookieOAuthNonce, Value: tt.nonce})
			}
			w := httptest.NewRecorder()
			h.Callback(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
		})
	}
}

func TestAuthHandlers_Callback_ExchangeFailure(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{
		completeLoginFunc: func(context.Context, service.CompleteLoginInput) (*domainauth.Session, error) {
			return nil, errors.New("token endpoint said no")
		},
	}, Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=c&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: cookieOAuthState, Value: "s1"})
	req.AddCookie(&http.Cookie{Name: cookieOAuthNonce, Value: "n1"})
	w := httptest.NewRecorder()
	h.Callback(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "token endpoint")
}

func TestAuthHandlers_Logout(t *testing.T) {
	var loggedOut string
	h := &AuthHandlers{Svc: &mockAuthService{
		logoutFunc: func(_ context.Context, id string) error {
			loggedOut = id
			return nil
		},
	}}

	w := httptest.NewRecorder()
	h.Logout(w, withSession(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), "sess-1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", loggedOut)
	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, -1, cookieByName(resp, cookieSession).MaxAge)
}

func TestAuthHandlers_Me(t *testing.T) {
	h := &AuthHandlers{Svc: sessionsByCookie(map[string]domainauth.Role{"a": domainauth.RoleAdmin})}

	w := httptest.NewRecorder()
	h.Me(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	w = httptest.NewRecorder()
	h.Me(w, withSession(httptest.NewRequest(http.MethodGet, "/api/me", nil), "a"))
	var body meResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Authenticated)
	require.NotNil(t, body.User)
	assert.Equal(t, "user-a", body.User.ID)
	assert.Equal(t, domainauth.RoleAdmin, body.User.Role)
}
