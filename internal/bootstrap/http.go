package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tenderwatch/tenderwatch-api/config"
	httpx "github.com/tenderwatch/tenderwatch-api/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// redisPinger adapts a redis client to httpx.Pinger.
type redisPinger struct {
	client redis.UniversalClient
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// buildRouterServices maps the service container onto the router's dependencies.
// Nil services stay nil interfaces so the router skips their routes.
func buildRouterServices(cfg *HTTPServerConfig, logger *slog.Logger) httpx.RouterServices {
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	rs := httpx.RouterServices{
		Cron: httpx.CronAuth{
			Secret: appCfg.Cron.Secret,
		},
		DispatchLimit: appCfg.Alerts.DefaultLimit,
		CookieDomain:  appCfg.HTTP.CookieDomain,
		CallbackURL:   appCfg.Auth.OAuth.RedirectURL,
		Ready:         map[string]httpx.Pinger{},
		Logger:        logger,
	}
	if appCfg.Cron.TrustPlatformHeader {
		rs.Cron.PlatformHeader = appCfg.Cron.PlatformHeader
	}

	svcs := cfg.Services
	if svcs.Auth != nil {
		rs.Auth = svcs.Auth
	}
	if svcs.SavedSearches != nil {
		rs.SavedSearch = svcs.SavedSearches
	}
	if svcs.AlertLogs != nil {
		rs.AlertLogs = svcs.AlertLogs
	}
	if svcs.Dispatcher != nil {
		rs.Dispatcher = svcs.Dispatcher
	}

	if cfg.DB != nil {
		rs.Ready["postgres"] = cfg.DB
	}
	if cfg.RedisClient != nil {
		rs.Ready["redis"] = redisPinger{client: cfg.RedisClient}
	}
	return rs
}

// NewHTTPServer builds the HTTP server without starting it.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	addr := ":8080"
	writeTimeout := 5 * time.Minute
	if cfg.Config != nil {
		if cfg.Config.HTTP.Addr != "" {
			addr = cfg.Config.HTTP.Addr
		}
		if cfg.Config.HTTP.WriteTimeout > 0 {
			writeTimeout = cfg.Config.HTTP.WriteTimeout
		}
	}

	return &http.Server{
		Addr:              addr,
		Handler:           httpx.NewRouter(buildRouterServices(cfg, logger)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

// ServeHTTP runs server until ctx is cancelled, then shuts it down gracefully.
func ServeHTTP(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return errors.New("http server is required")
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownWaitTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
