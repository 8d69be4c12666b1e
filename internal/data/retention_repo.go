package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tenderwatch/tenderwatch-api/internal/core"
	"github.com/tenderwatch/tenderwatch-api/internal/data/pgxutil"
)

// Reaper operations share one advisory lock namespace via the two-arg form.
const advisoryLockReaperMajor = 2000

var retentionLockMinor = map[core.RetentionTable]int{
	core.RetentionTableAlertLogs: 1,
	core.RetentionTableMailLogs:  2,
}

// RetentionRepo deletes aged log rows in bounded batches.
type RetentionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRetentionRepo creates a new RetentionRepo.
func NewRetentionRepo(db *sql.DB) *RetentionRepo {
	return &RetentionRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewRetentionRepoWithTimeProvider creates a RetentionRepo with a custom clock.
func NewRetentionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *RetentionRepo {
	return &RetentionRepo{DB: db, timeProvider: tp}
}

// DeleteOldLogs deletes up to BatchSize rows older than MaxAge from a whitelisted log table.
// Concurrent reapers skip the batch instead of blocking.
func (r *RetentionRepo) DeleteOldLogs(ctx context.Context, params core.DeleteOldLogsParams) (int64, error) {
	minor, ok := retentionLockMinor[params.Table]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRetentionTable, params.Table)
	}
	if params.BatchSize <= 0 {
		return 0, errors.New("batch size must be greater than zero")
	}
	if params.MaxAge <= 0 {
		return 0, errors.New("max age must be greater than zero")
	}

	cutoff := r.timeProvider.Now().Add(-params.MaxAge).UTC()
	// Table name comes from the whitelist above.
	query := fmt.Sprintf(`
		DELETE FROM %[1]s
		WHERE ctid IN (
			SELECT ctid FROM %[1]s
			WHERE created_at < $1
			ORDER BY created_at
			LIMIT $2
		)`, string(params.Table))

	var deleted int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var locked bool
			if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)",
				advisoryLockReaperMajor, minor).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock: %w", err)
			}
			if !locked {
				return nil
			}

			res, err := tx.ExecContext(ctx, query, cutoff, params.BatchSize)
			if err != nil {
				return fmt.Errorf("delete old %s: %w", params.Table, err)
			}
			deleted, err = res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
