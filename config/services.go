package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server (API, auth and dispatch triggers).
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeScheduler runs the in-process cron dispatch scheduler.
	ServiceModeScheduler ServiceMode = "scheduler"
	// ServiceModeReaper runs the alert/mail log retention reaper.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeScheduler,
		ServiceModeReaper,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if strings.TrimSpace(servicesStr) == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeScheduler, ServiceModeReaper:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, scheduler, reaper)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// DefaultSchedulerCron fires the dispatcher at the top of every hour.
const DefaultSchedulerCron = "0 * * * *"

// SchedulerConfig contains the in-process dispatch scheduler configuration.
type SchedulerConfig struct {
	// Cron is a standard five-field cron expression.
	Cron string `env:"SCHEDULER_CRON" envDefault:"0 * * * *"`

	// RunOnStart triggers one dispatch as soon as the scheduler starts.
	RunOnStart bool `env:"SCHEDULER_RUN_ON_START" envDefault:"false"`

	// Limit caps the number of saved searches examined per scheduled run. 0 uses ALERTS_DEFAULT_LIMIT.
	Limit int `env:"SCHEDULER_LIMIT" envDefault:"0"`

	// Timeout bounds a single scheduled dispatch.
	Timeout time.Duration `env:"SCHEDULER_TIMEOUT" envDefault:"10m"`
}

// Sanitize applies guardrails to scheduler configuration values.
func (s *SchedulerConfig) Sanitize() {
	s.Cron = strings.TrimSpace(s.Cron)
	if _, err := cron.ParseStandard(s.Cron); err != nil {
		s.Cron = DefaultSchedulerCron
	}
	if s.Limit < 0 {
		s.Limit = 0
	}
	if s.Timeout < time.Minute {
		s.Timeout = time.Minute
	}
}

// ReaperConfig contains the log retention reaper configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"1h"`

	// AlertLogMaxAge is the maximum age for alert_logs rows before deletion.
	AlertLogMaxAge time.Duration `env:"REAPER_ALERT_LOG_MAX_AGE" envDefault:"2160h"` // 90 days

	// MailLogMaxAge is the maximum age for mail_logs rows before deletion.
	MailLogMaxAge time.Duration `env:"REAPER_MAIL_LOG_MAX_AGE" envDefault:"2160h"` // 90 days

	// BatchSize is the maximum number of rows deleted per statement.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"1000"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	if r.Interval < time.Minute {
		r.Interval = time.Minute
	}
	if r.AlertLogMaxAge < 24*time.Hour {
		r.AlertLogMaxAge = 24 * time.Hour
	}
	if r.MailLogMaxAge < 24*time.Hour {
		r.MailLogMaxAge = 24 * time.Hour
	}
	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
	if r.BatchSize > 10000 {
		r.BatchSize = 10000
	}
}
