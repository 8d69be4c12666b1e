// Package ports declares the interfaces the services depend on for
// authentication, mail delivery and dispatch locking. Implementations live in
// internal/adapters.
package ports

import (
	"context"

	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin returns the provider auth URL with the opaque state and nonce to round-trip.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange verifies state and nonce, completes the code exchange and returns the identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
