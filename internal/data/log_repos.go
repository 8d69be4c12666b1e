package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tenderwatch/tenderwatch-api/internal/data/database"
	"github.com/tenderwatch/tenderwatch-api/internal/data/pgxutil"
	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

const (
	alertLogColumns = `id, user_id, saved_search_id, tenders_found, email_sent, error, created_at`
	mailLogColumns  = `id, user_id, to_address, subject, kind, status, error, created_at`

	defaultAlertLogListLimit = 50
	maxAlertLogListLimit     = 1000
)

// AlertLogRepo appends and lists alert log rows.
type AlertLogRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAlertLogRepo creates a new AlertLogRepo.
func NewAlertLogRepo(db *sql.DB) *AlertLogRepo {
	return &AlertLogRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// Create appends an alert log row. A zero CreatedAt uses the repo clock.
func (r *AlertLogRepo) Create(ctx context.Context, req *model.CreateAlertLogRequest) (*model.AlertLog, error) {
	if req == nil {
		return nil, errors.New("create alert log request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.timeProvider.Now()
	}

	out, err := pgxutil.CollectOneStruct[model.AlertLog](ctx, r.DB, pgxutil.Query{
		SQL: `
			INSERT INTO alert_logs (id, user_id, saved_search_id, tenders_found, email_sent, error, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + alertLogColumns,
		Args: []any{
			uuid.NewString(), req.UserID, req.SavedSearchID, req.TendersFound,
			req.EmailSent, req.Error, createdAt.UTC(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create alert log: %w", err)
	}
	return out, nil
}

// List returns alert logs newest first.
func (r *AlertLogRepo) List(ctx context.Context, opts model.AlertLogListOptions) ([]*model.AlertLog, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultAlertLogListLimit
	}
	limit = min(limit, maxAlertLogListLimit)

	queryOpts := []database.ListQueryOption{
		database.WithColumns("id", "user_id", "saved_search_id", "tenders_found", "email_sent", "error", "created_at"),
		database.WithOrderBy("created_at", "DESC"),
		database.WithOrderBy("id", "ASC"),
		database.WithLimit(limit),
		database.WithOffset(max(opts.Offset, 0)),
	}
	if opts.SavedSearchID != nil && *opts.SavedSearchID != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("saved_search_id", database.Equal, *opts.SavedSearchID),
		))
	}
	if opts.UserID != nil && *opts.UserID != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("user_id", database.Equal, *opts.UserID),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("alert_logs", queryOpts...))

	out, err := pgxutil.CollectStructs[model.AlertLog](ctx, r.DB, pgxutil.Query{SQL: query, Args: args})
	if err != nil {
		return nil, fmt.Errorf("list alert logs: %w", err)
	}
	return out, nil
}

// MailLogRepo appends mail log rows.
type MailLogRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMailLogRepo creates a new MailLogRepo.
func NewMailLogRepo(db *sql.DB) *MailLogRepo {
	return &MailLogRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// Create appends a mail log row. A zero CreatedAt uses the repo clock.
func (r *MailLogRepo) Create(ctx context.Context, req *model.CreateMailLogRequest) (*model.MailLog, error) {
	if req == nil {
		return nil, errors.New("create mail log request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.timeProvider.Now()
	}

	out, err := pgxutil.CollectOneStruct[model.MailLog](ctx, r.DB, pgxutil.Query{
		SQL: `
			INSERT INTO mail_logs (id, user_id, to_address, subject, kind, status, error, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING ` + mailLogColumns,
		Args: []any{
			uuid.NewString(), req.UserID, req.ToAddress, req.Subject, req.Kind,
			req.Status, req.Error, createdAt.UTC(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create mail log: %w", err)
	}
	return out, nil
}
