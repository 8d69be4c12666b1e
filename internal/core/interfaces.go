package core

import (
	"context"
	"time"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

// Repository contracts between the service layer and the data layer.
// Services depend on these interfaces, never on concrete repos.

// SavedSearchRepository defines the interface for saved search data operations.
type SavedSearchRepository interface {
	Create(ctx context.Context, req *model.CreateSavedSearchRequest) (*model.SavedSearch, error)
	GetByID(ctx context.Context, id string) (*model.SavedSearch, error)
	List(ctx context.Context, opts model.SavedSearchListOptions) ([]*model.SavedSearch, error)
	Update(ctx context.Context, id string, req model.UpdateSavedSearchRequest) (*model.SavedSearch, error)
	Delete(ctx context.Context, id string) (bool, error)

	// ListAlertCandidates returns searches with a dispatchable frequency,
	// most recently updated first, capped at limit.
	ListAlertCandidates(ctx context.Context, limit int) ([]*model.SavedSearch, error)

	// MarkAlerted sets last_alert_sent without touching updated_at.
	MarkAlerted(ctx context.Context, id string, at time.Time) error
}

// TenderRepository defines the interface for tender store operations.
type TenderRepository interface {
	// Search returns tenders matching q, most recently published first.
	Search(ctx context.Context, q model.TenderSearch) ([]*model.Tender, error)
	Upsert(ctx context.Context, req *model.UpsertTenderRequest) (*model.Tender, error)
}

// AlertLogRepository defines the interface for alert log operations.
type AlertLogRepository interface {
	Create(ctx context.Context, req *model.CreateAlertLogRequest) (*model.AlertLog, error)
	List(ctx context.Context, opts model.AlertLogListOptions) ([]*model.AlertLog, error)
}

// MailLogRepository defines the interface for mail log operations.
type MailLogRepository interface {
	Create(ctx context.Context, req *model.CreateMailLogRequest) (*model.MailLog, error)
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error)
}

// RetentionTable names a log table subject to age-based deletion.
type RetentionTable string

const (
	RetentionTableAlertLogs RetentionTable = "alert_logs"
	RetentionTableMailLogs  RetentionTable = "mail_logs"
)

// DeleteOldLogsParams groups parameters for DeleteOldLogs.
type DeleteOldLogsParams struct {
	Table     RetentionTable
	MaxAge    time.Duration
	BatchSize int
}

// RetentionRepository defines the interface for log cleanup operations.
type RetentionRepository interface {
	// DeleteOldLogs deletes up to BatchSize rows of Table older than MaxAge
	// and returns the number deleted.
	DeleteOldLogs(ctx context.Context, params DeleteOldLogsParams) (int64, error)
}
