package model

import (
	"errors"
	"strings"
	"time"
)

// MailKind classifies outbound mail.
type MailKind string

const (
	MailKindSavedSearchAlert MailKind = "saved_search_alert"
)

// MailStatus is the delivery outcome reported by the transport.
type MailStatus string

const (
	MailStatusSent    MailStatus = "sent"
	MailStatusFailed  MailStatus = "failed"
	// MailStatusSkipped records an alert with no matches; nothing was handed to the transport.
	MailStatusSkipped MailStatus = "skipped"
)

// Valid returns true if the status is one of the supported values.
func (s MailStatus) Valid() bool {
	switch s {
	case MailStatusSent, MailStatusFailed, MailStatusSkipped:
		return true
	default:
		return false
	}
}

// MailLog records one outbound mail decision: a send attempt or a skipped empty alert.
type MailLog struct {
	ID        string     `json:"id"              db:"id"`
	UserID    string     `json:"userId"          db:"user_id"`
	ToAddress string     `json:"toAddress"       db:"to_address"`
	Subject   string     `json:"subject"         db:"subject"`
	Kind      MailKind   `json:"kind"            db:"kind"`
	Status    MailStatus `json:"status"          db:"status"`
	Error     *string    `json:"error,omitempty" db:"error"`
	CreatedAt time.Time  `json:"createdAt"       db:"created_at"`
}

// CreateMailLogRequest represents a request to append a mail log row.
type CreateMailLogRequest struct {
	UserID    string
	ToAddress string
	Subject   string
	Kind      MailKind
	Status    MailStatus
	Error     *string
	CreatedAt time.Time
}

// Validate validates the CreateMailLogRequest fields.
func (r *CreateMailLogRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(r.ToAddress) == "" {
		return errors.New("to_address is required")
	}
	if r.Kind == "" {
		return errors.New("kind is required")
	}
	if !r.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

// MailMessage is a plain-text message handed to a Mailer.
type MailMessage struct {
	To      string
	ToName  string
	Subject string
	Text    string
}
