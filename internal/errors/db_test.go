package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_Codes(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		wantField string
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: fmt.Errorf("query: %w", context.Canceled), wantCode: ErrCodeCanceled},
		{name: "no rows", err: pgx.ErrNoRows, wantCode: ErrCodeNotFound},
		{
			name:      "unique by column",
			err:       &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "ocid"},
			wantCode:  ErrCodeConflict,
			wantField: "ocid",
		},
		{
			name: "unique by detail",
			err: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: "Key (email)=(a@example.com) already exists.",
			},
			wantCode:  ErrCodeConflict,
			wantField: "email",
		},
		{
			name:      "unique by constraint",
			err:       &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "tenders_ocid_key"},
			wantCode:  ErrCodeConflict,
			wantField: "ocid",
		},
		{
			name:     "foreign key",
			err:      &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation},
			wantCode: ErrCodeForeignKey,
		},
		{
			name:      "not null",
			err:       &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "name"},
			wantCode:  ErrCodeValidation,
			wantField: "name",
		},
		{
			name:     "check",
			err:      &pgconn.PgError{Code: pgerrcode.CheckViolation},
			wantCode: ErrCodeValidation,
		},
		{
			name:     "other pg error",
			err:      &pgconn.PgError{Code: pgerrcode.DeadlockDetected},
			wantCode: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.err)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("MapDBError() code = %v, want %v", got, tt.wantCode)
			}
			if got := GetField(err); got != tt.wantField {
				t.Errorf("MapDBError() field = %q, want %q", got, tt.wantField)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("MapDBError() should wrap the original error")
			}
		})
	}
}

func TestMapDBError_Unrecognized(t *testing.T) {
	orig := errors.New("boom")
	if got := MapDBError(orig); got != orig {
		t.Errorf("MapDBError() = %v, want original error", got)
	}
}

func TestMapDBError_Messages(t *testing.T) {
	tests := []struct {
		name  string
		pgErr *pgconn.PgError
		want  string
	}{
		{
			name: "missing parent from detail",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (user_id)=(u1) is not present in table "users".`,
			},
			want: "Cannot complete operation because the referenced user does not exist.",
		},
		{
			name:  "unknown table",
			pgErr: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, TableName: "widgets"},
			want:  "Cannot complete operation because a referenced item does not exist.",
		},
		{
			name: "frequency check",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.CheckViolation,
				ConstraintName: "saved_searches_alert_frequency_check",
			},
			want: "alertFrequency must be one of none, daily, weekly.",
		},
		{
			name: "closing window check",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.CheckViolation,
				ConstraintName: "saved_searches_closing_in_days_check",
			},
			want: "closingInDays cannot be negative.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *AppError
			if !errors.As(MapDBError(tt.pgErr), &appErr) {
				t.Fatal("expected AppError")
			}
			if appErr.Message != tt.want {
				t.Errorf("message = %q, want %q", appErr.Message, tt.want)
			}
		})
	}
}
