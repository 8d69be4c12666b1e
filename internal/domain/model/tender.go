package model

import (
	"errors"
	"strings"
	"time"
)

// Tender is a published procurement release.
type Tender struct {
	ID           string     `json:"id"                     db:"id"`
	OCID         string     `json:"ocid"                   db:"ocid"`
	Title        string     `json:"title"                  db:"title"`
	Description  string     `json:"description"            db:"description"`
	BuyerName    string     `json:"buyerName"              db:"buyer_name"`
	MainCategory *string    `json:"mainCategory,omitempty" db:"main_category"`
	Status       *string    `json:"status,omitempty"       db:"status"`
	PublishedAt  time.Time  `json:"publishedAt"            db:"published_at"`
	ClosingAt    *time.Time `json:"closingAt,omitempty"    db:"closing_at"`
	URL          *string    `json:"url,omitempty"          db:"url"`
}

// TenderSearch is a filter over the tender store. Zero-valued fields are not applied.
type TenderSearch struct {
	// PublishedSince keeps tenders with published_at >= PublishedSince.
	PublishedSince time.Time

	// Keywords is matched case-insensitively as a substring of title, description or buyer name.
	Keywords *string
	// Categories restricts main_category to one of the listed codes.
	Categories []string
	// Buyer is matched case-insensitively as a substring of buyer name.
	Buyer *string
	// ClosingFrom and ClosingTo bound closing_at (inclusive) when both are set.
	ClosingFrom *time.Time
	ClosingTo   *time.Time
	// Status is matched exactly.
	Status *string

	Limit int
}

// UpsertTenderRequest loads or refreshes a tender keyed by OCID.
type UpsertTenderRequest struct {
	OCID         string     `json:"ocid"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	BuyerName    string     `json:"buyerName"`
	MainCategory *string    `json:"mainCategory,omitempty"`
	Status       *string    `json:"status,omitempty"`
	PublishedAt  time.Time  `json:"publishedAt"`
	ClosingAt    *time.Time `json:"closingAt,omitempty"`
	URL          *string    `json:"url,omitempty"`
}

// Normalize trims text fields.
func (r *UpsertTenderRequest) Normalize() {
	r.OCID = strings.TrimSpace(r.OCID)
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.BuyerName = strings.TrimSpace(r.BuyerName)
	r.MainCategory = trimmedValue(r.MainCategory)
	r.Status = trimmedValue(r.Status)
	r.URL = trimmedValue(r.URL)
}

// Validate validates the UpsertTenderRequest fields.
func (r *UpsertTenderRequest) Validate() error {
	if r.OCID == "" {
		return errors.New("ocid is required")
	}
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.PublishedAt.IsZero() {
		return errors.New("publishedAt is required")
	}
	if r.ClosingAt != nil && r.ClosingAt.Before(r.PublishedAt) {
		return errors.New("closingAt cannot be before publishedAt")
	}
	return nil
}
