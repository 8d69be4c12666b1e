package model

import "fmt"

const (
	// DefaultDispatchLimit is the number of saved searches examined per run when no limit is given.
	DefaultDispatchLimit = 200
	// MaxTendersPerAlert caps the tenders included in a single alert.
	MaxTendersPerAlert = 25
)

// DispatchResult aggregates the counters of one dispatch run.
type DispatchResult struct {
	// Processed counts due searches whose evaluation completed.
	Processed int `json:"processed"`
	// Emails counts alerts the mail transport confirmed as sent.
	Emails int `json:"emails"`
	// TotalFound is the sum of tenders_found over the alert logs written by the run.
	TotalFound int `json:"totalFound"`
	// Skipped counts due searches whose owner has no usable email.
	Skipped int `json:"skipped"`
	// Failed counts searches whose evaluation errored and was isolated.
	Failed int `json:"failed"`
}

// AlertSubject renders the subject line of a saved-search alert mail.
func AlertSubject(found int, searchName string) string {
	noun := "tenders"
	if found == 1 {
		noun = "tender"
	}
	return fmt.Sprintf("%d new %s match %q", found, noun, searchName)
}
