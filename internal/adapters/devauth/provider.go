// Package devauth provides a config-driven AuthProvider for local development.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
	"github.com/tenderwatch/tenderwatch-api/internal/ports"
)

const defaultSessionDuration = 8 * time.Hour

// Config describes the identity every login resolves to.
type Config struct {
	UserID          string
	Email           string
	Name            string
	Groups          []string
	SessionDuration time.Duration // Optional: defaults to 8h
}

// Provider skips the IdP round trip: Begin points straight back at the
// callback and Exchange returns the configured identity.
type Provider struct {
	mu       sync.Mutex
	identity domainauth.Identity
	ttl      time.Duration
	now      func() time.Time
}

// NewProvider constructs a dev auth provider.
func NewProvider(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.UserID) == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if strings.TrimSpace(cfg.Email) == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	ttl := cfg.SessionDuration
	if ttl <= 0 {
		ttl = defaultSessionDuration
	}
	first, last, _ := strings.Cut(strings.TrimSpace(cfg.Name), " ")
	return &Provider{
		identity: domainauth.Identity{
			UserID:    cfg.UserID,
			FirstName: first,
			LastName:  strings.TrimSpace(last),
			Email:     cfg.Email,
			Groups:    append([]string(nil), cfg.Groups...),
		},
		ttl: ttl,
		now: time.Now,
	}, nil
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	state, err := token()
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := token()
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	callback := in.RedirectURL
	if callback == "" {
		callback = "/auth/callback"
	}
	q := url.Values{"code": {"dev"}, "state": {state}}
	sep := "?"
	if strings.Contains(callback, "?") {
		sep = "&"
	}
	return callback + sep + q.Encode(), state, nonce, nil
}

func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.identity
	id.Groups = append([]string(nil), p.identity.Groups...)
	id.ExpiresAt = p.now().Add(p.ttl)
	return id, nil
}

func token() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
