package model

import (
	"errors"
	"strings"
	"time"
)

// AlertLog records one dispatch attempt for one saved search. Rows are append-only.
type AlertLog struct {
	ID            string    `json:"id"              db:"id"`
	UserID        string    `json:"userId"          db:"user_id"`
	SavedSearchID string    `json:"savedSearchId"   db:"saved_search_id"`
	TendersFound  int       `json:"tendersFound"    db:"tenders_found"`
	EmailSent     bool      `json:"emailSent"       db:"email_sent"`
	Error         *string   `json:"error,omitempty" db:"error"`
	CreatedAt     time.Time `json:"createdAt"       db:"created_at"`
}

// CreateAlertLogRequest represents a request to append an alert log row.
type CreateAlertLogRequest struct {
	UserID        string
	SavedSearchID string
	TendersFound  int
	EmailSent     bool
	Error         *string
	CreatedAt     time.Time
}

// Validate validates the CreateAlertLogRequest fields.
func (r *CreateAlertLogRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(r.SavedSearchID) == "" {
		return errors.New("saved_search_id is required")
	}
	if r.TendersFound < 0 {
		return errors.New("tenders_found cannot be negative")
	}
	return nil
}

// AlertLogListOptions represents options for listing alert logs, newest first.
type AlertLogListOptions struct {
	SavedSearchID *string `json:"savedSearchId,omitempty"`
	UserID        *string `json:"userId,omitempty"`
	Limit         int     `json:"limit,omitempty"`
	Offset        int     `json:"offset,omitempty"`
}
