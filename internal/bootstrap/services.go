package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/tenderwatch/tenderwatch-api/config"
	"github.com/tenderwatch/tenderwatch-api/internal/adapters/mailer"
	redisadapter "github.com/tenderwatch/tenderwatch-api/internal/adapters/redis"
	"github.com/tenderwatch/tenderwatch-api/internal/adapters/reaper"
	"github.com/tenderwatch/tenderwatch-api/internal/adapters/scheduler"
	"github.com/tenderwatch/tenderwatch-api/internal/data"
	"github.com/tenderwatch/tenderwatch-api/internal/observability/statsd"
	"github.com/tenderwatch/tenderwatch-api/internal/ports"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
const shutdownWaitTimeout = 15 * time.Second

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	SavedSearches *service.SavedSearchService
	AlertLogs     *service.AlertLogService
	Alerts        *service.SavedSearchAlertService
	Dispatcher    *service.DispatchCoordinator
	Auth          *service.AuthService // nil when auth is not configured
	Tenders       *data.TenderRepo
	Observability ObservabilityContainer
}

// ObservabilityContainer groups metrics dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// Close releases resources owned by the container.
func (c ServiceContainer) Close() error {
	if c.Observability.MetricsSink == nil {
		return nil
	}
	return c.Observability.MetricsSink.Close()
}

// ServiceDeps contains dependencies for creating services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger

	// Mailer overrides the transport selected by MAIL_MODE.
	Mailer ports.Mailer
	// SkipAuth leaves ServiceContainer.Auth nil (CLI use).
	SkipAuth bool
}

type serviceRepositories struct {
	SavedSearches *data.SavedSearchRepo
	Tenders       *data.TenderRepo
	Users         *data.UserRepo
	AlertLogs     *data.AlertLogRepo
	MailLogs      *data.MailLogRepo
}

func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		SavedSearches: data.NewSavedSearchRepo(db),
		Tenders:       data.NewTenderRepo(db),
		Users:         data.NewUserRepo(db),
		AlertLogs:     data.NewAlertLogRepo(db),
		MailLogs:      data.NewMailLogRepo(db),
	}
}

func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	metricsCfg := cfg.Metrics
	client, err := statsd.NewClient(statsd.Config{
		Enabled: metricsCfg.IsEnabled(),
		Address: metricsCfg.StatsdAddress,
		Prefix:  metricsCfg.Prefix,
		Logger:  logger.With("component", "statsd"),
	})
	if err != nil {
		logger.Warn("statsd client unavailable, metrics disabled", "address", metricsCfg.StatsdAddress, "error", err)
		client, _ = statsd.NewClient(statsd.Config{Logger: logger})
	}
	return ObservabilityContainer{MetricsSink: client, MetricsConfig: metricsCfg}
}

// buildMailer selects the mail transport.
//
//nolint:ireturn // callers only need ports.Mailer.
func buildMailer(cfg config.MailConfig, isDev bool, logger *slog.Logger) (ports.Mailer, error) {
	switch cfg.Mode {
	case config.MailModeLog:
		return mailer.NewLogMailer(logger, isDev), nil
	case config.MailModeSMTP, "":
		m, err := mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.Username,
			Password: cfg.Password,
			StartTLS: cfg.StartTLS,
			From:     cfg.From,
			FromName: cfg.FromName,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("smtp mailer: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported mail mode %q", cfg.Mode)
	}
}

// buildDispatchLock selects the guard that keeps dispatch runs from overlapping.
// It returns nil for LockBackendNone.
//
//nolint:ireturn // callers only need ports.DispatchLock.
func buildDispatchLock(
	cfg config.AlertsConfig,
	db *sql.DB,
	client redis.UniversalClient,
	logger *slog.Logger,
) (ports.DispatchLock, error) {
	switch cfg.LockBackend {
	case config.LockBackendNone:
		logger.Warn("dispatch lock disabled; concurrent runs may send duplicate alerts")
		return nil, nil
	case config.LockBackendRedis:
		if client == nil {
			return nil, errors.New("redis dispatch lock requires a redis client")
		}
		return redisadapter.NewDispatchLock(redisadapter.DispatchLockOptions{
			Client: client,
			TTL:    cfg.LockTTL,
			Logger: logger,
		})
	case config.LockBackendPostgres, "":
		if db == nil {
			return nil, errors.New("postgres dispatch lock requires a database")
		}
		return data.NewAdvisoryLock(db), nil
	default:
		return nil, fmt.Errorf("unsupported lock backend %q", cfg.LockBackend)
	}
}

// NewServices creates and initializes all services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database connection is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps.DB)
	observability := buildObservability(logger, cfg.Observability)

	mail := deps.Mailer
	if mail == nil {
		var err error
		if mail, err = buildMailer(cfg.Mail, cfg.IsDev, logger); err != nil {
			return ServiceContainer{}, err
		}
	}

	alerts, err := service.NewSavedSearchAlertService(service.SavedSearchAlertServiceOptions{
		SavedSearches: repos.SavedSearches,
		Tenders:       repos.Tenders,
		Users:         repos.Users,
		AlertLogs:     repos.AlertLogs,
		MailLogs:      repos.MailLogs,
		Mailer:        mail,
		Composer:      service.NewAlertComposer(cfg.HTTP.BaseURL),
		FailurePolicy: cfg.Alerts.FailurePolicy,
		DefaultLimit:  cfg.Alerts.DefaultLimit,
		Logger:        logger,
		Metrics:       observability.MetricsSink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("saved search alerts: %w", err)
	}

	lock, err := buildDispatchLock(cfg.Alerts, deps.DB, deps.RedisClient, logger)
	if err != nil {
		return ServiceContainer{}, err
	}
	dispatcher, err := service.NewDispatchCoordinator(service.DispatchCoordinatorOptions{
		Runner:  alerts,
		Lock:    lock,
		Timeout: cfg.Scheduler.Timeout,
		Logger:  logger,
		Metrics: observability.MetricsSink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("dispatch coordinator: %w", err)
	}

	container := ServiceContainer{
		SavedSearches: service.NewSavedSearchService(service.SavedSearchServiceOptions{Repo: repos.SavedSearches}),
		AlertLogs:     service.NewAlertLogService(repos.AlertLogs),
		Alerts:        alerts,
		Dispatcher:    dispatcher,
		Tenders:       repos.Tenders,
		Observability: observability,
	}
	if !deps.SkipAuth {
		container.Auth = BuildAuthService(context.Background(), AuthConfig{
			Auth:        cfg.Auth,
			RedisClient: deps.RedisClient,
			DB:          deps.DB,
			Logger:      logger,
		})
	}
	return container, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// backgroundService describes a startable long-running component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

func newHTTPBackgroundService(cfg *ServiceOrchestrationConfig, logger *slog.Logger) backgroundService {
	return backgroundService{
		mode: config.ServiceModeHTTP,
		name: "http server",
		start: func(ctx context.Context) error {
			server := NewHTTPServer(&HTTPServerConfig{
				Config:      cfg.Config,
				Services:    cfg.Services,
				DB:          cfg.DB,
				RedisClient: cfg.RedisClient,
				Logger:      logger,
			})
			return ServeHTTP(ctx, server, logger)
		},
	}
}

func newSchedulerBackgroundService(cfg *ServiceOrchestrationConfig, logger *slog.Logger) backgroundService {
	return backgroundService{
		mode: config.ServiceModeScheduler,
		name: "scheduler",
		start: func(ctx context.Context) error {
			if cfg.Services.Dispatcher == nil {
				return errors.New("dispatcher is not configured")
			}
			sched, err := scheduler.New(scheduler.Options{
				Dispatcher: cfg.Services.Dispatcher,
				Spec:       cfg.Config.Scheduler.Cron,
				Limit:      cfg.Config.Scheduler.Limit,
				RunOnStart: cfg.Config.Scheduler.RunOnStart,
				Logger:     logger,
			})
			if err != nil {
				return err
			}
			return sched.Run(ctx)
		},
	}
}

func newReaperBackgroundService(cfg *ServiceOrchestrationConfig, logger *slog.Logger) backgroundService {
	return backgroundService{
		mode: config.ServiceModeReaper,
		name: "reaper",
		start: func(ctx context.Context) error {
			runner, err := reaper.NewRunner(reaper.RunnerOptions{
				DB:      cfg.DB,
				Config:  cfg.Config.Reaper,
				Logger:  logger,
				Metrics: cfg.Services.Observability.MetricsSink,
			})
			if err != nil {
				return err
			}
			return runner.Run(ctx)
		},
	}
}

func buildBackgroundServices(cfg *ServiceOrchestrationConfig, logger *slog.Logger) []backgroundService {
	return []backgroundService{
		newHTTPBackgroundService(cfg, logger),
		newSchedulerBackgroundService(cfg, logger),
		newReaperBackgroundService(cfg, logger),
	}
}

// runBackgroundServices runs every enabled service until ctx is cancelled or
// one of them fails; a failure cancels the rest.
func runBackgroundServices(
	ctx context.Context,
	logger *slog.Logger,
	enabled map[config.ServiceMode]bool,
	services []backgroundService,
) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, svc := range services {
		if !enabled[svc.mode] {
			continue
		}
		logger.InfoContext(ctx, "background service started", "service", svc.name, "mode", svc.mode)
		group.Go(func() error {
			err := svc.start(gctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("%s failed: %w", svc.name, err)
			}
			logger.Info(svc.name + " stopped")
			return nil
		})
	}
	return group.Wait()
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down services...")
	}()

	if err := runBackgroundServices(ctx, logger, enabled, buildBackgroundServices(cfg, logger)); err != nil {
		logger.Error("service error", "error", err)
		return err
	}
	return nil
}
