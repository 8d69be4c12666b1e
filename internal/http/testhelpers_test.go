package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

// mockAuthService is a test double for service.AuthService.
type mockAuthService struct {
	beginLoginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeLoginFunc func(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	getSessionFunc    func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFunc        func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginLoginFunc != nil {
		return m.beginLoginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/auth?state=test-state",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (m *mockAuthService) CompleteLogin(
	ctx context.Context,
	input service.CompleteLoginInput,
) (*domainauth.Session, error) {
	if m.completeLoginFunc != nil {
		return m.completeLoginFunc(ctx, input)
	}
	return &domainauth.Session{
		ID:        "test-session-id",
		UserID:    "test-user",
		Email:     "test@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *mockAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, sessionID)
	}
	return nil, errors.New("no session")
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

// sessionsByCookie returns an auth double that resolves session_id cookie values to roles.
func sessionsByCookie(roles map[string]domainauth.Role) *mockAuthService {
	return &mockAuthService{
		getSessionFunc: func(_ context.Context, id string) (*domainauth.Session, error) {
			role, ok := roles[id]
			if !ok {
				return nil, errors.New("unknown session")
			}
			return &domainauth.Session{
				ID:        id,
				UserID:    "user-" + id,
				Name:      "User " + id,
				Role:      role,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
}

func withSession(r *http.Request, id string) *http.Request {
	r.AddCookie(&http.Cookie{Name: cookieSession, Value: id})
	return r
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
