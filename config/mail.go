package config

import (
	"fmt"
	"strings"
)

// MailMode selects the mail transport.
type MailMode string

const (
	// MailModeSMTP delivers through an SMTP relay.
	MailModeSMTP MailMode = "smtp"
	// MailModeLog writes messages to the structured log instead of sending them.
	MailModeLog MailMode = "log"
)

// UnmarshalText implements encoding.TextUnmarshaler for MailMode.
func (m *MailMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "":
		*m = ""
	case string(MailModeSMTP), string(MailModeLog):
		*m = MailMode(v)
	default:
		return fmt.Errorf("invalid MailMode: %q (valid options: smtp, log)", v)
	}
	return nil
}

// MailConfig contains outbound mail configuration.
type MailConfig struct {
	// Mode defaults to log in development and smtp otherwise.
	Mode MailMode `env:"MAIL_MODE"`

	Host     string `env:"MAIL_SMTP_HOST"     envDefault:"localhost"`
	Port     int    `env:"MAIL_SMTP_PORT"     envDefault:"587"`
	Username string `env:"MAIL_SMTP_USERNAME"`
	Password string `env:"MAIL_SMTP_PASSWORD"`

	// StartTLS requires a STARTTLS upgrade; sends fail when the relay does not offer it.
	// Disable only for local relays such as a development mail catcher.
	StartTLS bool `env:"MAIL_SMTP_STARTTLS" envDefault:"true"`

	From     string `env:"MAIL_FROM"      envDefault:"alerts@tenderwatch.local"`
	FromName string `env:"MAIL_FROM_NAME" envDefault:"TenderWatch"`
}

// Sanitize resolves the effective mail mode.
func (m *MailConfig) Sanitize(isDev bool) {
	m.Host = strings.TrimSpace(m.Host)
	m.From = strings.TrimSpace(m.From)
	if m.Mode == "" {
		if isDev {
			m.Mode = MailModeLog
		} else {
			m.Mode = MailModeSMTP
		}
	}
	if m.Port <= 0 {
		m.Port = 587
	}
}
