package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the public URL of the application, used for links in alert emails.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies. Empty uses the request host.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// WriteTimeout bounds handler execution; dispatch triggers run synchronously so it
	// has to cover a full batch.
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"5m"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.WriteTimeout < 30*time.Second {
		h.WriteTimeout = 30 * time.Second
	}
}
