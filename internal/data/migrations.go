package data

import (
	"context"
	"database/sql"

	"github.com/tenderwatch/tenderwatch-api/internal/migrate"
)

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}

// PendingMigrations lists migration versions that have not been applied yet.
func PendingMigrations(ctx context.Context, db *sql.DB) ([]string, error) {
	return migrate.Pending(ctx, db)
}
