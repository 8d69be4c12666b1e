package data

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"

	"github.com/tenderwatch/tenderwatch-api/internal/data/pgxutil"
)

// AdvisoryLock implements ports.DispatchLock with a transaction-scoped
// Postgres advisory lock keyed by the FNV-1a hash of the lock name.
type AdvisoryLock struct {
	DB *sql.DB
}

// NewAdvisoryLock creates a new AdvisoryLock.
func NewAdvisoryLock(db *sql.DB) *AdvisoryLock {
	return &AdvisoryLock{DB: db}
}

// TryRun attempts to acquire the lock and runs fn while the holding transaction is open.
// Return semantics:
//   - (false, nil): lock held elsewhere; fn was not executed
//   - (true, nil): lock acquired; fn executed and succeeded
//   - (true, err): lock acquired; fn executed and failed with err
//
// fn runs on its own connections; the lock is released when the transaction ends.
func (l *AdvisoryLock) TryRun(ctx context.Context, name string, fn func(context.Context) error) (bool, error) {
	lockKey := fnvHash(name)

	var locked bool
	var fnErr error
	err := pgxutil.WithSQLTx(ctx, l.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1)", lockKey).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock %s: %w", name, err)
			}
			if !locked {
				return nil
			}
			// fn's error is reported separately so the lock transaction still commits.
			fnErr = fn(ctx)
			return nil
		},
	})
	if err != nil {
		return false, err
	}
	return locked, fnErr
}

// fnvHash maps a lock name onto the signed bigint key space of pg advisory locks.
func fnvHash(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64()) //nolint:gosec // wraparound is intended
}
