package ports

import (
	"context"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

// Mailer delivers a single message. A nil error means the transport accepted it.
type Mailer interface {
	Send(ctx context.Context, msg model.MailMessage) error
}
