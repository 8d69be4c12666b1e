package config

import (
	"fmt"
	"strings"
	"time"
)

// FailurePolicy controls what the dispatcher does when a single saved search fails.
type FailurePolicy string

const (
	// FailurePolicyIsolate records the failure and moves on to the next saved search.
	FailurePolicyIsolate FailurePolicy = "isolate"
	// FailurePolicyAbort stops the whole run on the first failure.
	FailurePolicyAbort FailurePolicy = "abort"
)

// UnmarshalText implements encoding.TextUnmarshaler for FailurePolicy.
func (p *FailurePolicy) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "":
		*p = FailurePolicyIsolate
	case string(FailurePolicyIsolate), string(FailurePolicyAbort):
		*p = FailurePolicy(v)
	default:
		return fmt.Errorf("invalid FailurePolicy: %q (valid options: isolate, abort)", v)
	}
	return nil
}

// LockBackend selects the implementation guarding concurrent dispatch runs.
type LockBackend string

const (
	// LockBackendPostgres uses a transaction-scoped advisory lock.
	LockBackendPostgres LockBackend = "postgres"
	// LockBackendRedis uses SET NX with a TTL.
	LockBackendRedis LockBackend = "redis"
	// LockBackendNone disables the guard (single-instance deployments and tests).
	LockBackendNone LockBackend = "none"
)

// UnmarshalText implements encoding.TextUnmarshaler for LockBackend.
func (b *LockBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "":
		*b = LockBackendPostgres
	case string(LockBackendPostgres), string(LockBackendRedis), string(LockBackendNone):
		*b = LockBackend(v)
	default:
		return fmt.Errorf("invalid LockBackend: %q (valid options: postgres, redis, none)", v)
	}
	return nil
}

const (
	defaultAlertsLimit = 200
	maxAlertsLimit     = 5000
)

// AlertsConfig contains saved-search alert dispatch configuration.
type AlertsConfig struct {
	// DefaultLimit caps the number of saved searches examined per run when the caller passes none.
	DefaultLimit int `env:"ALERTS_DEFAULT_LIMIT" envDefault:"200"`

	FailurePolicy FailurePolicy `env:"ALERTS_FAILURE_POLICY" envDefault:"isolate"`

	LockBackend LockBackend   `env:"ALERTS_LOCK_BACKEND" envDefault:"postgres"`
	LockTTL     time.Duration `env:"ALERTS_LOCK_TTL"     envDefault:"15m"`
}

// Sanitize applies guardrails to alert configuration values.
func (a *AlertsConfig) Sanitize() {
	if a.DefaultLimit <= 0 {
		a.DefaultLimit = defaultAlertsLimit
	}
	if a.DefaultLimit > maxAlertsLimit {
		a.DefaultLimit = maxAlertsLimit
	}
	if a.FailurePolicy == "" {
		a.FailurePolicy = FailurePolicyIsolate
	}
	if a.LockBackend == "" {
		a.LockBackend = LockBackendPostgres
	}
	if a.LockTTL < time.Minute {
		a.LockTTL = time.Minute
	}
}

// CronTriggerConfig authorizes the external scheduler endpoint.
type CronTriggerConfig struct {
	// Secret is compared against "Authorization: Bearer <secret>" or ?secret=.
	// Empty disables secret-based authorization.
	Secret string `env:"CRON_SECRET"`

	// TrustPlatformHeader accepts requests carrying PlatformHeader, as set by a hosting
	// platform's managed cron.
	TrustPlatformHeader bool   `env:"CRON_TRUST_PLATFORM_HEADER" envDefault:"false"`
	PlatformHeader      string `env:"CRON_PLATFORM_HEADER"       envDefault:"X-Vercel-Cron"`
}

// Sanitize normalises cron trigger settings.
func (c *CronTriggerConfig) Sanitize() {
	c.Secret = strings.TrimSpace(c.Secret)
	c.PlatformHeader = strings.TrimSpace(c.PlatformHeader)
	if c.PlatformHeader == "" {
		c.TrustPlatformHeader = false
	}
}
