package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tenderwatch/tenderwatch-api/internal/core"
	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
	"github.com/tenderwatch/tenderwatch-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
	Users    core.UserRepository // Optional: signed-in users are upserted when set
	Logger   *slog.Logger        // Optional
	Now      func() time.Time    // Optional: defaults to time.Now
}

// AuthService coordinates the identity provider, role mapping, session
// persistence and the users table.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	users    core.UserRepository
	logger   *slog.Logger
	now      func() time.Time
}

// ErrSessionExpired is returned for sessions past their expiry.
var ErrSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		users:    opts.Users,
		logger:   logger.With("component", "auth_service"),
		now:      now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the code for an identity, upserts the user and persists a session.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*domainauth.Session, error) {
	switch {
	case in.Code == "":
		return nil, errors.New("authorization code is required")
	case in.State == "":
		return nil, errors.New("state parameter is required")
	case in.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput(in))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	session := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		Name:      identity.DisplayName(),
		Email:     identity.Email,
		Role:      s.roles.Map(identity.Groups),
		ExpiresAt: identity.ExpiresAt,
	}

	if err := s.upsertUser(ctx, session); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.logger.InfoContext(ctx, "user signed in", "user_id", session.UserID, "role", session.Role)
	return &session, nil
}

func (s *AuthService) upsertUser(ctx context.Context, session domainauth.Session) error {
	if s.users == nil {
		return nil
	}
	req := &model.UpsertUserRequest{ID: session.UserID, Name: session.Name, Role: string(session.Role)}
	if session.Email != "" {
		req.Email = &session.Email
	}
	if _, err := s.users.Upsert(ctx, req); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetSession retrieves a live session by ID. Expired sessions are deleted.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.Expired(s.now()) {
		if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", delErr))
		}
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// Logout removes a session. An empty ID is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
