// Package auth holds hand-written test doubles for the auth ports.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
	"github.com/tenderwatch/tenderwatch-api/internal/ports"
)

var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.RoleMapper   = (*StaticRoleMapper)(nil)
)

// ErrNotFound is returned by MemorySessionStore for unknown session IDs.
var ErrNotFound = errors.New("not found")

// MockAuthProvider is an IdP double. Begin hands out numbered state and nonce
// values; Exchange returns Identity with a fresh expiry. Either can be
// overridden with the Func fields.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL  string
	Identity domainauth.Identity
	TTL      time.Duration

	mu    sync.Mutex
	calls int
}

// NewMockAuthProvider returns a provider signing in a buyer-side analyst.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		Identity: domainauth.Identity{
			UserID:    "mock-user-1",
			FirstName: "Mock",
			LastName:  "User",
			Email:     "mock.user@example.com",
			Groups:    []string{"users"},
		},
		TTL: time.Hour,
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.mu.Lock()
	m.calls++
	n := m.calls
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	return authURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	id := m.Identity
	if id.UserID == "" {
		id = domainauth.Identity{UserID: "mock-user-1", Email: "mock.user@example.com"}
	}
	ttl := m.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	id.ExpiresAt = time.Now().Add(ttl)
	return id, nil
}

// MemorySessionStore keeps sessions in a map.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StaticRoleMapper grants admin for AdminGroup, user for UserGroup and guest otherwise.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	role := domainauth.RoleGuest
	for _, g := range groups {
		switch {
		case m.AdminGroup != "" && g == m.AdminGroup:
			return domainauth.RoleAdmin
		case m.UserGroup != "" && g == m.UserGroup:
			role = domainauth.RoleUser
		}
	}
	return role
}
