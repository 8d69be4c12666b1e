package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// reKeyField extracts the column from "Key (field)=(value) already exists.".
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// reNotPresent detects a missing parent: "... is not present in table ...".
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// tableDomainNames maps tables to the names users see in error messages.
var tableDomainNames = map[string]string{
	"users":          "user",
	"tenders":        "tender",
	"saved_searches": "saved search",
	"alert_logs":     "alert log",
	"mail_logs":      "mail log",
}

// MapDBError maps database errors to AppError instances:
//   - context deadline and cancellation → Timeout / Canceled
//   - pgx.ErrNoRows → NotFound
//   - unique violations → Conflict
//   - foreign key violations → ForeignKey
//   - check and NOT NULL violations → Validation
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "This value already exists. Please choose a different one.",
			Field:   uniqueField(pgErr),
			Cause:   pgErr,
		}
	case pgerrcode.ForeignKeyViolation:
		return &AppError{Code: ErrCodeForeignKey, Message: foreignKeyMessage(pgErr), Cause: pgErr}
	case pgerrcode.CheckViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: checkMessage(pgErr.ConstraintName),
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	case pgerrcode.NotNullViolation:
		msg := "Required field is missing. Please check your input."
		if pgErr.ColumnName != "" {
			msg = "This field is required."
		}
		return &AppError{Code: ErrCodeValidation, Message: msg, Field: pgErr.ColumnName, Cause: pgErr}
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	// "tenders_ocid_key" → "ocid"
	parts := strings.Split(pgErr.ConstraintName, "_")
	if len(parts) == 3 {
		return parts[1]
	}
	return ""
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	table := pgErr.TableName
	if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		table = m[1]
	}
	if name, ok := tableDomainNames[strings.ToLower(strings.TrimSpace(table))]; ok {
		return "Cannot complete operation because the referenced " + name + " does not exist."
	}
	return "Cannot complete operation because a referenced item does not exist."
}

// checkMessage names the well-known saved search constraints.
func checkMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "alert_frequency"):
		return "alertFrequency must be one of none, daily, weekly."
	case strings.Contains(constraint, "closing_in_days"):
		return "closingInDays cannot be negative."
	case strings.Contains(constraint, "name"):
		return "name must be between 1 and 255 characters."
	default:
		return "Invalid data. Please check your input."
	}
}
