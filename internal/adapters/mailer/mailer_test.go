package mailer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

// fakeRelay is a minimal SMTP server that accepts one message per connection.
// It advertises only the given EHLO extensions.
type fakeRelay struct {
	ln   net.Listener
	exts []string

	mu   sync.Mutex
	auth string
	from string
	rcpt []string
	data string
}

func newFakeRelay(t *testing.T, exts ...string) *fakeRelay {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	r := &fakeRelay{ln: ln, exts: exts}
	t.Cleanup(func() { _ = ln.Close() })
	go r.serve()
	return r
}

func (r *fakeRelay) port() int { return r.ln.Addr().(*net.TCPAddr).Port }

func (r *fakeRelay) serve() {
	for {
		conn, err := r.ln.Accept()
		if err != nil {
			return
		}
		go r.handle(conn)
	}
}

func (r *fakeRelay) handle(conn net.Conn) {
	defer conn.Close()
	rd := bufio.NewReader(conn)
	reply := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }

	reply("220 relay.test ESMTP")
	for {
		line, err := rd.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimRight(line, "\r\n")
		upper := strings.ToUpper(cmd)
		switch {
		case strings.HasPrefix(upper, "EHLO"), strings.HasPrefix(upper, "HELO"):
			for _, ext := range r.exts {
				reply("250-" + ext)
			}
			reply("250 relay.test")
		case strings.HasPrefix(upper, "AUTH PLAIN "):
			r.mu.Lock()
			r.auth = cmd[len("AUTH PLAIN "):]
			r.mu.Unlock()
			reply("235 authenticated")
		case strings.HasPrefix(upper, "MAIL FROM:"):
			r.mu.Lock()
			r.from = strings.Trim(cmd[len("MAIL FROM:"):], "<> ")
			r.mu.Unlock()
			reply("250 OK")
		case strings.HasPrefix(upper, "RCPT TO:"):
			r.mu.Lock()
			r.rcpt = append(r.rcpt, strings.Trim(cmd[len("RCPT TO:"):], "<> "))
			r.mu.Unlock()
			reply("250 OK")
		case upper == "DATA":
			reply("354 go ahead")
			var buf bytes.Buffer
			for {
				l, err := rd.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				buf.WriteString(l)
			}
			r.mu.Lock()
			r.data = buf.String()
			r.mu.Unlock()
			reply("250 queued")
		case upper == "QUIT":
			reply("221 bye")
			return
		default:
			reply("502 not implemented")
		}
	}
}

func TestSMTPMailer_Send(t *testing.T) {
	relay := newFakeRelay(t)
	m, err := NewSMTPMailer(SMTPConfig{
		Host:     "127.0.0.1",
		Port:     relay.port(),
		From:     "alerts@tenderwatch.example",
		FromName: "TenderWatch",
	})
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC) }

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = m.Send(ctx, model.MailMessage{
		To:      "ana@bücher.example",
		ToName:  "Ana",
		Subject: `2 new tenders match "Roads"`,
		Text:    "Hello Ana,\n\n1. Resurfacing\n",
	})
	require.NoError(t, err)

	relay.mu.Lock()
	defer relay.mu.Unlock()
	assert.Equal(t, "alerts@tenderwatch.example", relay.from)
	assert.Equal(t, []string{"ana@xn--bcher-kva.example"}, relay.rcpt)
	assert.Contains(t, relay.data, "Subject: 2 new tenders match \"Roads\"")
	assert.Contains(t, relay.data, "Content-Type: text/plain; charset=utf-8")
	assert.Contains(t, relay.data, "Message-Id:")
	assert.Contains(t, relay.data, "Resurfacing")
}

func TestSMTPMailer_PlainAuth(t *testing.T) {
	relay := newFakeRelay(t, "AUTH PLAIN")
	m, err := NewSMTPMailer(SMTPConfig{
		Host: "127.0.0.1", Port: relay.port(), From: "alerts@tenderwatch.example",
		Username: "mailer", Password: "s3cret",
	})
	require.NoError(t, err)

	require.NoError(t, m.Send(context.Background(), model.MailMessage{To: "b@example.com", Subject: "s", Text: "t"}))

	relay.mu.Lock()
	defer relay.mu.Unlock()
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("\x00mailer\x00s3cret")), relay.auth)
	assert.Equal(t, []string{"b@example.com"}, relay.rcpt)
}

func TestSMTPMailer_RefusesDowngrade(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SMTPConfig
		wantErr error
	}{
		{"starttls required but not offered", SMTPConfig{StartTLS: true}, ErrStartTLSUnavailable},
		{"credentials set but auth not offered", SMTPConfig{Username: "mailer", Password: "s3cret"}, ErrAuthUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := newFakeRelay(t)
			cfg := tt.cfg
			cfg.Host = "127.0.0.1"
			cfg.Port = relay.port()
			cfg.From = "alerts@tenderwatch.example"
			m, err := NewSMTPMailer(cfg)
			require.NoError(t, err)

			err = m.Send(context.Background(), model.MailMessage{To: "b@example.com", Subject: "s", Text: "t"})
			require.ErrorIs(t, err, tt.wantErr)

			relay.mu.Lock()
			defer relay.mu.Unlock()
			assert.Empty(t, relay.rcpt, "nothing may be sent after a refused downgrade")
			assert.Empty(t, relay.data)
		})
	}
}

func TestSMTPMailer_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	m, err := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: port, From: "a@example.com", DialTimeout: time.Second})
	require.NoError(t, err)

	err = m.Send(context.Background(), model.MailMessage{To: "b@example.com", Subject: "s", Text: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial 127.0.0.1:"+strconv.Itoa(port))
}

func TestNewSMTPMailer_Validation(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Port: 25, From: "a@example.com"})
	require.Error(t, err)
	_, err = NewSMTPMailer(SMTPConfig{Host: "localhost", From: "a@example.com"})
	require.Error(t, err)
	_, err = NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 25, From: "not-an-address"})
	require.Error(t, err)
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: " ana@example.com ", want: "ana@example.com"},
		{in: "ana@Bücher.example", want: "ana@xn--bcher-kva.example"},
		{in: "", wantErr: true},
		{in: "no-at-sign", wantErr: true},
		{in: "@example.com", wantErr: true},
		{in: "a b@example.com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeAddress(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := normalizeAddress("  ")
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewJSONHandler(&buf, nil)), false)

	require.NoError(t, m.Send(context.Background(), model.MailMessage{To: "a@example.com", Subject: "hello", Text: "secret body"}))
	assert.Contains(t, buf.String(), `"subject":"hello"`)
	assert.NotContains(t, buf.String(), "secret body")

	assert.ErrorIs(t, m.Send(context.Background(), model.MailMessage{}), ErrNoRecipient)
}
