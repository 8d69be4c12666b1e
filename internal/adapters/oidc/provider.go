// Package oidc implements ports.AuthProvider against an OpenID Connect issuer.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
	"github.com/tenderwatch/tenderwatch-api/internal/ports"
)

const (
	stateLength       = 32
	defaultSessionTTL = time.Hour
)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	// DiscoveryURL is the issuer URL, with or without /.well-known/openid-configuration.
	DiscoveryURL string
	HTTPClient   *http.Client // Optional
}

// Provider runs the authorization code flow and verifies the returned ID token.
type Provider struct {
	config   *oauth2.Config
	provider *gooidc.Provider
	verifier *gooidc.IDTokenVerifier
	client   *http.Client
}

// NewProvider performs discovery and returns a ready Provider.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errors.New("client ID is required")
	case cfg.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case cfg.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case cfg.DiscoveryURL == "":
		return nil, errors.New("discovery URL is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	op, err := gooidc.NewProvider(gooidc.ClientContext(ctx, client), issuerFromDiscovery(cfg.DiscoveryURL))
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
		provider: op,
		verifier: op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		client:   client,
	}, nil
}

func issuerFromDiscovery(u string) string {
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, "/.well-known/openid-configuration")
	return strings.TrimSuffix(u, "/")
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}
	state, err := randomString(stateLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(stateLength)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state, gooidc.Nonce(nonce))
	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" || in.State == "" || in.Nonce == "" {
		return domainauth.Identity{}, errors.New("code, state and nonce are required")
	}
	ctx = gooidc.ClientContext(ctx, p.client)

	tok, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code: %w", err)
	}

	c, err := p.idTokenClaims(ctx, tok, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if c.Email == "" || c.Subject == "" {
		ui, uiErr := p.userInfo(ctx, tok)
		if uiErr != nil {
			return domainauth.Identity{}, fmt.Errorf("user info: %w", uiErr)
		}
		c.fill(ui)
	}
	if c.Subject == "" {
		return domainauth.Identity{}, errors.New("identity has no subject")
	}

	expiresAt := time.Now().Add(defaultSessionTTL)
	if !tok.Expiry.IsZero() {
		expiresAt = tok.Expiry
	}
	return c.identity(expiresAt), nil
}

// claims is the subset of standard OIDC claims tenderwatch uses.
type claims struct {
	Subject    string   `json:"sub"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	GivenName  string   `json:"given_name"`
	FamilyName string   `json:"family_name"`
	Groups     []string `json:"groups"`
	Nonce      string   `json:"nonce"`
}

func (c *claims) fill(ui claims) {
	if c.Subject == "" {
		c.Subject = ui.Subject
	}
	if c.Email == "" {
		c.Email = ui.Email
	}
	if c.GivenName == "" && c.FamilyName == "" {
		c.GivenName, c.FamilyName = ui.GivenName, ui.FamilyName
	}
	if c.Name == "" {
		c.Name = ui.Name
	}
	if len(c.Groups) == 0 {
		c.Groups = ui.Groups
	}
}

func (c claims) identity(expiresAt time.Time) domainauth.Identity {
	first, last := c.GivenName, c.FamilyName
	if first == "" && last == "" {
		first = c.Name
	}
	return domainauth.Identity{
		UserID:    c.Subject,
		FirstName: first,
		LastName:  last,
		Email:     c.Email,
		Groups:    c.Groups,
		ExpiresAt: expiresAt,
	}
}

func (p *Provider) idTokenClaims(ctx context.Context, tok *oauth2.Token, nonce string) (claims, error) {
	var c claims
	if !slices.Contains(p.config.Scopes, gooidc.ScopeOpenID) {
		return c, nil
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return c, errors.New("missing id_token in token response")
	}
	idTok, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return c, fmt.Errorf("verify id_token: %w", err)
	}
	if err := idTok.Claims(&c); err != nil {
		return c, fmt.Errorf("parse id_token claims: %w", err)
	}
	if c.Nonce != nonce {
		return c, errors.New("invalid nonce")
	}
	return c, nil
}

func (p *Provider) userInfo(ctx context.Context, tok *oauth2.Token) (claims, error) {
	var c claims
	ui, err := p.provider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return c, err
	}
	if err := ui.Claims(&c); err != nil {
		return c, fmt.Errorf("decode: %w", err)
	}
	if c.Subject == "" {
		c.Subject = ui.Subject
	}
	if c.Email == "" {
		c.Email = ui.Email
	}
	return c, nil
}

// randomString returns n URL-safe characters from crypto/rand.
func randomString(n int) (string, error) {
	b := make([]byte, base64.RawURLEncoding.DecodedLen(n)+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
