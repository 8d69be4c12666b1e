//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// AlertFrequency controls how often a saved search is re-evaluated for alerts.
type AlertFrequency string

const (
	AlertFrequencyNone   AlertFrequency = "none"
	AlertFrequencyDaily  AlertFrequency = "daily"
	AlertFrequencyWeekly AlertFrequency = "weekly"
)

const (
	dailyAlertWindow  = 24 * time.Hour
	weeklyAlertWindow = 7 * 24 * time.Hour

	maxSavedSearchNameLength = 255
	maxClosingInDays         = 365
)

// Valid returns true if the frequency is one of the supported values.
func (f AlertFrequency) Valid() bool {
	switch f {
	case AlertFrequencyNone, AlertFrequencyDaily, AlertFrequencyWeekly:
		return true
	default:
		return false
	}
}

// Dispatchable reports whether the dispatcher considers searches with this frequency.
func (f AlertFrequency) Dispatchable() bool {
	return f == AlertFrequencyDaily || f == AlertFrequencyWeekly
}

// Window returns the minimum time between two alerts. Zero for non-dispatchable frequencies.
func (f AlertFrequency) Window() time.Duration {
	switch f {
	case AlertFrequencyDaily:
		return dailyAlertWindow
	case AlertFrequencyWeekly:
		return weeklyAlertWindow
	case AlertFrequencyNone:
		return 0
	default:
		return 0
	}
}

// String returns the string representation of the frequency.
func (f AlertFrequency) String() string {
	return string(f)
}

// DispatchableFrequencies lists the frequencies eligible for alert dispatch.
func DispatchableFrequencies() []AlertFrequency {
	return []AlertFrequency{AlertFrequencyDaily, AlertFrequencyWeekly}
}

// SavedSearch is a user-owned tender filter with a notification cadence.
type SavedSearch struct {
	ID     string `json:"id"     db:"id"`
	UserID string `json:"userId" db:"user_id"`
	Name   string `json:"name"   db:"name"`

	Keywords *string `json:"keywords,omitempty" db:"keywords"`
	// Categories holds the raw JSON array as stored. Use ParseCategories to read it.
	Categories    *string `json:"-"                       db:"categories"`
	Buyer         *string `json:"buyer,omitempty"         db:"buyer"`
	Status        *string `json:"status,omitempty"        db:"status"`
	ClosingInDays *int    `json:"closingInDays,omitempty" db:"closing_in_days"`

	AlertFrequency AlertFrequency `json:"alertFrequency"          db:"alert_frequency"`
	LastAlertSent  *time.Time     `json:"lastAlertSent,omitempty" db:"last_alert_sent"`
	CreatedAt      time.Time      `json:"createdAt"               db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt"               db:"updated_at"`
}

// ErrMalformedCategories is returned by ParseCategories when the stored value is not a JSON string array.
var ErrMalformedCategories = errors.New("malformed categories")

// IsDue reports whether the search should be evaluated at now.
// A search that has never been alerted is always due; otherwise the full
// frequency window must have elapsed (inclusive).
func (s *SavedSearch) IsDue(now time.Time) bool {
	if !s.AlertFrequency.Dispatchable() {
		return false
	}
	if s.LastAlertSent == nil {
		return true
	}
	return now.Sub(*s.LastAlertSent) >= s.AlertFrequency.Window()
}

// Since returns the start of the lookback window used to select new tenders.
func (s *SavedSearch) Since(now time.Time) time.Time {
	if s.LastAlertSent != nil {
		return *s.LastAlertSent
	}
	return now.Add(-s.AlertFrequency.Window())
}

// ParseCategories decodes the stored categories.
// It returns (nil, nil) when no categories are configured and
// ErrMalformedCategories when the stored text is not a JSON array of strings.
func (s *SavedSearch) ParseCategories() ([]string, error) {
	if s.Categories == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(*s.Categories)
	if raw == "" || raw == "null" {
		return nil, nil
	}

	var cats []string
	if err := json.Unmarshal([]byte(raw), &cats); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCategories, err)
	}

	out := cats[:0]
	for _, c := range cats {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// TenderSearch builds the tender filter for this saved search evaluated at now.
// categories is the already parsed category list (see ParseCategories).
func (s *SavedSearch) TenderSearch(now time.Time, categories []string) TenderSearch {
	q := TenderSearch{
		PublishedSince: s.Since(now),
		Keywords:       trimmedValue(s.Keywords),
		Categories:     categories,
		Buyer:          trimmedValue(s.Buyer),
		Status:         trimmedValue(s.Status),
		Limit:          MaxTendersPerAlert,
	}
	if s.ClosingInDays != nil && *s.ClosingInDays > 0 {
		from := now
		to := now.Add(time.Duration(*s.ClosingInDays) * 24 * time.Hour)
		q.ClosingFrom = &from
		q.ClosingTo = &to
	}
	return q
}

// savedSearchJSON is the wire shape: categories travel as an array.
type savedSearchJSON struct {
	*savedSearchAlias
	Categories []string `json:"categories,omitempty"`
}

type savedSearchAlias SavedSearch

// MarshalJSON renders categories as a JSON array, omitting malformed stored values.
func (s SavedSearch) MarshalJSON() ([]byte, error) {
	cats, _ := s.ParseCategories()
	alias := savedSearchAlias(s)
	return json.Marshal(savedSearchJSON{savedSearchAlias: &alias, Categories: cats})
}

// EncodeCategories serializes a category list for storage. Empty lists are stored as NULL.
func EncodeCategories(categories []string) (*string, error) {
	cleaned := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}
	s := string(b)
	return &s, nil
}

// CreateSavedSearchRequest represents a request to create a saved search.
type CreateSavedSearchRequest struct {
	UserID         string         `json:"-"`
	Name           string         `json:"name"`
	Keywords       *string        `json:"keywords,omitempty"`
	Categories     []string       `json:"categories,omitempty"`
	Buyer          *string        `json:"buyer,omitempty"`
	Status         *string        `json:"status,omitempty"`
	ClosingInDays  *int           `json:"closingInDays,omitempty"`
	AlertFrequency AlertFrequency `json:"alertFrequency,omitempty"`
}

// Normalize trims inputs and applies defaults.
func (r *CreateSavedSearchRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Name = strings.TrimSpace(r.Name)
	r.Keywords = trimmedValue(r.Keywords)
	r.Buyer = trimmedValue(r.Buyer)
	r.Status = trimmedValue(r.Status)
	r.AlertFrequency = AlertFrequency(strings.ToLower(strings.TrimSpace(string(r.AlertFrequency))))
	if r.AlertFrequency == "" {
		r.AlertFrequency = AlertFrequencyNone
	}
}

// Validate validates the CreateSavedSearchRequest fields.
func (r *CreateSavedSearchRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("user_id is required")
	}
	if err := validateSavedSearchName(r.Name); err != nil {
		return err
	}
	if !r.AlertFrequency.Valid() {
		return errors.New("alertFrequency must be one of none, daily, weekly")
	}
	return validateClosingInDays(r.ClosingInDays)
}

// UpdateSavedSearchRequest represents a partial update of a saved search.
// Nil fields are left unchanged. A blank text filter or a zero closing window clears it.
type UpdateSavedSearchRequest struct {
	Name           *string         `json:"name,omitempty"`
	Keywords       *string         `json:"keywords,omitempty"`
	Categories     *[]string       `json:"categories,omitempty"`
	Buyer          *string         `json:"buyer,omitempty"`
	Status         *string         `json:"status,omitempty"`
	ClosingInDays  *int            `json:"closingInDays,omitempty"`
	AlertFrequency *AlertFrequency `json:"alertFrequency,omitempty"`
}

// Normalize trims inputs.
func (r *UpdateSavedSearchRequest) Normalize() {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		r.Name = &n
	}
	if r.AlertFrequency != nil {
		f := AlertFrequency(strings.ToLower(strings.TrimSpace(string(*r.AlertFrequency))))
		r.AlertFrequency = &f
	}
}

// Validate validates the UpdateSavedSearchRequest fields.
func (r *UpdateSavedSearchRequest) Validate() error {
	if r.Name != nil {
		if err := validateSavedSearchName(*r.Name); err != nil {
			return err
		}
	}
	if r.AlertFrequency != nil && !r.AlertFrequency.Valid() {
		return errors.New("alertFrequency must be one of none, daily, weekly")
	}
	return validateClosingInDays(r.ClosingInDays)
}

// HasUpdates reports whether any field is set.
func (r *UpdateSavedSearchRequest) HasUpdates() bool {
	return r.Name != nil || r.Keywords != nil || r.Categories != nil || r.Buyer != nil ||
		r.Status != nil || r.ClosingInDays != nil || r.AlertFrequency != nil
}

// SavedSearchListOptions represents options for listing saved searches.
type SavedSearchListOptions struct {
	UserID string `json:"userId,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

func validateSavedSearchName(name string) error {
	if name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(name) > maxSavedSearchNameLength {
		return fmt.Errorf("name cannot exceed %d characters", maxSavedSearchNameLength)
	}
	return nil
}

func validateClosingInDays(days *int) error {
	if days == nil {
		return nil
	}
	if *days < 0 {
		return errors.New("closingInDays cannot be negative")
	}
	if *days > maxClosingInDays {
		return fmt.Errorf("closingInDays cannot exceed %d", maxClosingInDays)
	}
	return nil
}

// trimmedValue returns nil for nil or blank strings, otherwise a trimmed copy.
func trimmedValue(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
