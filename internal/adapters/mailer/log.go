package mailer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger      *slog.Logger
	includeBody bool
}

// NewLogMailer returns a LogMailer. With includeBody the full text is logged.
func NewLogMailer(logger *slog.Logger, includeBody bool) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With("component", "log_mailer"), includeBody: includeBody}
}

func (m *LogMailer) Send(ctx context.Context, msg model.MailMessage) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}
	attrs := []any{"to", msg.To, "subject", msg.Subject, "bytes", len(msg.Text)}
	if m.includeBody {
		attrs = append(attrs, "body", msg.Text)
	}
	m.logger.InfoContext(ctx, "mail (not sent)", attrs...)
	return nil
}
