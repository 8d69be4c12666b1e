// Package errors classifies errors into low-cardinality metric tag values.
package errors

import (
	"context"
	goerrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/tenderwatch/tenderwatch-api/internal/errors"
)

// Error classes emitted as the error_class tag.
const (
	ClassTimeout    = "timeout"
	ClassCanceled   = "canceled"
	ClassDB         = "db"
	ClassValidation = "validation"
	ClassUnknown    = "unknown"
)

// Classify returns a stable class for err, or "" for nil.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return ClassTimeout
	case goerrors.Is(err, context.Canceled):
		return ClassCanceled
	case apperrors.IsValidation(err):
		return ClassValidation
	}

	var pgErr *pgconn.PgError
	if goerrors.As(err, &pgErr) || goerrors.Is(err, pgx.ErrNoRows) {
		return ClassDB
	}
	return ClassUnknown
}
