package devauth

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderwatch/tenderwatch-api/internal/ports"
)

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "a@example.com"})
	require.Error(t, err)
	_, err = NewProvider(Config{UserID: "dev"})
	require.Error(t, err)
}

func TestProvider_BeginAndExchange(t *testing.T) {
	p, err := NewProvider(Config{
		UserID:          "dev-user",
		Email:           "dev@example.com",
		Name:            "Dev User",
		Groups:          []string{"tenderwatch-admins"},
		SessionDuration: time.Hour,
	})
	require.NoError(t, err)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	authURL, state, nonce, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"})
	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.NotEqual(t, state, nonce)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback", u.Path)
	assert.Equal(t, "dev", u.Query().Get("code"))
	assert.Equal(t, state, u.Query().Get("state"))

	id, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev-user", id.UserID)
	assert.Equal(t, "Dev User", id.DisplayName())
	assert.Equal(t, []string{"tenderwatch-admins"}, id.Groups)
	assert.Equal(t, fixed.Add(time.Hour), id.ExpiresAt)
}

func TestProvider_BeginDefaultsCallback(t *testing.T) {
	p, err := NewProvider(Config{UserID: "dev", Email: "dev@example.com"})
	require.NoError(t, err)

	authURL, _, _, err := p.Begin(context.Background(), ports.BeginInput{})
	require.NoError(t, err)
	assert.Contains(t, authURL, "/auth/callback?code=dev&state=")
}
