package config

import (
	"os"
	"strings"
)

// AppConfig is the root configuration for the tenderwatch binaries.
//
// Values are loaded from environment variables with github.com/caarlos0/env.
// Each group lives in its own file:
//   - alerts.go: saved-search alert dispatch, cron trigger and mail transport
//   - auth.go: OIDC / dev authentication
//   - database.go: Postgres and Redis connections
//   - http.go: HTTP listener
//   - services.go: service modes, scheduler and reaper
//   - observability.go: logging and metrics
type AppConfig struct {
	// IsDev enables development conveniences (log mailer, verbose logging).
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	// Services is a comma-delimited list of service modes to run.
	Services string `env:"SERVICES" envDefault:"http"`

	Alerts AlertsConfig
	Cron   CronTriggerConfig
	Mail   MailConfig

	Scheduler SchedulerConfig
	Reaper    ReaperConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.HTTP.Sanitize()
	c.Alerts.Sanitize()
	c.Cron.Sanitize()
	c.Mail.Sanitize(c.IsDev)
	c.Scheduler.Sanitize()
	c.Reaper.Sanitize()
	c.Observability.Sanitize()
}

// detectDevMode falls back to APP_ENV when DEV is not set.
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	appEnv := strings.ToLower(os.Getenv("APP_ENV"))
	c.IsDev = appEnv == "development" || appEnv == "dev"
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	return c.serviceEnabled(ServiceModeHTTP)
}

// IsSchedulerEnabled returns true if the cron dispatch scheduler is enabled.
func (c *AppConfig) IsSchedulerEnabled() bool {
	return c.serviceEnabled(ServiceModeScheduler)
}

// IsReaperEnabled returns true if the log retention reaper is enabled.
func (c *AppConfig) IsReaperEnabled() bool {
	return c.serviceEnabled(ServiceModeReaper)
}

func (c *AppConfig) serviceEnabled(mode ServiceMode) bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[mode]
}
