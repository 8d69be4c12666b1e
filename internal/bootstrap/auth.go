package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/tenderwatch/tenderwatch-api/config"
	"github.com/tenderwatch/tenderwatch-api/internal/adapters/authroles"
	"github.com/tenderwatch/tenderwatch-api/internal/adapters/devauth"
	"github.com/tenderwatch/tenderwatch-api/internal/adapters/oidc"
	redisadapter "github.com/tenderwatch/tenderwatch-api/internal/adapters/redis"
	"github.com/tenderwatch/tenderwatch-api/internal/data"
	"github.com/tenderwatch/tenderwatch-api/internal/ports"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	DB          *sql.DB // Optional: signed-in users are upserted into the users table
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(ctx context.Context, cfg AuthConfig) *service.AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RedisClient == nil {
		logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		return nil
	}

	var (
		prov ports.AuthProvider
		err  error
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err = buildDevAuthProvider(cfg.Auth.DevAuth)
	case config.AuthModeOAuth:
		prov, err = buildOAuthProvider(ctx, cfg.Auth.OAuth, logger)
	default:
		return nil
	}
	if err != nil {
		logger.Warn("failed to create auth provider, auth disabled", "mode", cfg.Auth.Mode, "error", err)
		return nil
	}
	if prov == nil {
		return nil
	}

	opts := service.AuthServiceOptions{
		Provider: prov,
		Sessions: redisadapter.NewSessionStore(cfg.RedisClient),
		Roles: authroles.StaticRoleMapper{
			AdminGroup: cfg.Auth.AdminGroup,
			UserGroup:  cfg.Auth.UserGroup,
		},
		Logger: logger,
	}
	if cfg.DB != nil {
		opts.Users = data.NewUserRepo(cfg.DB)
	}
	return service.NewAuthService(opts)
}

//nolint:ireturn // both providers satisfy ports.AuthProvider.
func buildDevAuthProvider(cfg config.DevAuthConfig) (ports.AuthProvider, error) {
	return devauth.NewProvider(devauth.Config{
		UserID: cfg.UserID,
		Email:  cfg.Email,
		Name:   cfg.Name,
		Groups: cfg.Groups,
	})
}

//nolint:ireturn // both providers satisfy ports.AuthProvider.
func buildOAuthProvider(ctx context.Context, cfg config.OAuthConfig, logger *slog.Logger) (ports.AuthProvider, error) {
	// Only enable when fully configured
	if cfg.DiscoveryURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
			"discovery_url_empty", cfg.DiscoveryURL == "",
			"client_id_empty", cfg.ClientID == "",
			"client_secret_empty", cfg.ClientSecret == "",
		)
		return nil, nil
	}

	return oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scope:        cfg.Scope,
		DiscoveryURL: cfg.DiscoveryURL,
	})
}
