// Package mailer implements ports.Mailer over SMTP (go-smtp) and a logging transport for development.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"golang.org/x/net/idna"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

var (
	// ErrNoRecipient is returned when a message has no usable recipient address.
	ErrNoRecipient = errors.New("mail has no recipient")
	// ErrStartTLSUnavailable is returned when STARTTLS is required but not offered by the relay.
	ErrStartTLSUnavailable = errors.New("smtp relay does not offer STARTTLS")
	// ErrAuthUnavailable is returned when credentials are configured but the relay offers no AUTH.
	ErrAuthUnavailable = errors.New("smtp relay does not offer AUTH")
)

const defaultDialTimeout = 15 * time.Second

// SMTPConfig configures an SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // Optional: PLAIN auth is required when set
	Password string
	StartTLS bool // Refuse to send when the relay does not offer STARTTLS

	From     string
	FromName string

	DialTimeout time.Duration // Optional
	TLSConfig   *tls.Config   // Optional: overrides the STARTTLS config
	Logger      *slog.Logger  // Optional
}

// SMTPMailer sends one message per connection.
type SMTPMailer struct {
	addr     string
	username string
	password string
	startTLS bool
	tls      *tls.Config
	from     mail.Address
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSMTPMailer validates cfg and returns a mailer.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Port <= 0 {
		return nil, errors.New("smtp port must be positive")
	}
	from, err := normalizeAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}

	m := &SMTPMailer{
		addr:     net.JoinHostPort(host, strconv.Itoa(cfg.Port)),
		username: cfg.Username,
		password: cfg.Password,
		startTLS: cfg.StartTLS,
		tls:      cfg.TLSConfig,
		from:     mail.Address{Name: cfg.FromName, Address: from},
		timeout:  cfg.DialTimeout,
		logger:   cfg.Logger,
		now:      time.Now,
	}
	if m.tls == nil {
		m.tls = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	}
	if m.timeout <= 0 {
		m.timeout = defaultDialTimeout
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.logger = m.logger.With("component", "smtp_mailer")
	return m, nil
}

// Send delivers msg. A nil error means the relay accepted it.
func (m *SMTPMailer) Send(ctx context.Context, msg model.MailMessage) error {
	to, err := normalizeAddress(msg.To)
	if err != nil {
		return err
	}
	body, err := m.compose(msg, to)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	dialer := net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", m.addr, err)
	}
	deadline := time.Now().Add(m.timeout * 2)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := m.deliver(c, to, body); err != nil {
		return err
	}
	m.logger.DebugContext(ctx, "mail sent", "to", to, "subject", msg.Subject)
	return nil
}

func (m *SMTPMailer) deliver(c *smtp.Client, to string, body []byte) error {
	if err := c.Hello("localhost"); err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	if m.startTLS {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return ErrStartTLSUnavailable
		}
		if err := c.StartTLS(m.tls); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if m.username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return ErrAuthUnavailable
		}
		if err := c.Auth(sasl.NewPlainClient("", m.username, m.password)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}
	if err := c.Mail(m.from.Address, nil); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to, nil); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("end data: %w", err)
	}
	return c.Quit()
}

// compose renders a single-part text/plain message.
func (m *SMTPMailer) compose(msg model.MailMessage, to string) ([]byte, error) {
	var h mail.Header
	h.SetDate(m.now())
	h.SetAddressList("From", []*mail.Address{&m.from})
	h.SetAddressList("To", []*mail.Address{{Name: msg.ToName, Address: to}})
	h.SetSubject(msg.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, msg.Text); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeAddress trims addr and converts its domain to ASCII (punycode).
func normalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" || domain == "" || strings.ContainsAny(addr, " \r\n<>") {
		if addr == "" {
			return "", ErrNoRecipient
		}
		return "", fmt.Errorf("invalid address %q", addr)
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", fmt.Errorf("invalid domain %q: %w", domain, err)
	}
	return local + "@" + ascii, nil
}
