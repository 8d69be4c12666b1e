package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tenderwatch/tenderwatch-api/internal/data/database"
	"github.com/tenderwatch/tenderwatch-api/internal/data/pgxutil"
	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

const savedSearchColumns = `id, user_id, name, keywords, categories, buyer, status, closing_in_days,
	alert_frequency, last_alert_sent, created_at, updated_at`

const (
	savedSearchGetByIDQuery = `SELECT ` + savedSearchColumns + ` FROM saved_searches WHERE id = $1`

	savedSearchCandidatesQuery = `
		SELECT ` + savedSearchColumns + `
		FROM saved_searches
		WHERE alert_frequency IN ('daily', 'weekly')
		ORDER BY updated_at DESC, id
		LIMIT $1`

	defaultSavedSearchListLimit = 50
	maxSavedSearchListLimit     = 500
)

// SavedSearchRepo provides database operations for saved searches.
type SavedSearchRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSavedSearchRepo creates a new SavedSearchRepo with the real clock.
func NewSavedSearchRepo(db *sql.DB) *SavedSearchRepo {
	return &SavedSearchRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewSavedSearchRepoWithTimeProvider creates a SavedSearchRepo with a custom clock (useful for tests).
func NewSavedSearchRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SavedSearchRepo {
	return &SavedSearchRepo{DB: db, timeProvider: tp}
}

// Create inserts a new saved search.
func (r *SavedSearchRepo) Create(ctx context.Context, req *model.CreateSavedSearchRequest) (*model.SavedSearch, error) {
	if req == nil {
		return nil, errors.New("create saved search request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	categories, err := model.EncodeCategories(req.Categories)
	if err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	out, err := pgxutil.CollectOneStruct[model.SavedSearch](ctx, r.DB, pgxutil.Query{
		SQL: `
			INSERT INTO saved_searches (
				id, user_id, name, keywords, categories, buyer, status, closing_in_days,
				alert_frequency, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			RETURNING ` + savedSearchColumns,
		Args: []any{
			uuid.NewString(), req.UserID, req.Name, req.Keywords, categories, req.Buyer,
			req.Status, req.ClosingInDays, req.AlertFrequency, now,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create saved search: %w", err)
	}
	return out, nil
}

// GetByID retrieves a saved search by ID.
func (r *SavedSearchRepo) GetByID(ctx context.Context, id string) (*model.SavedSearch, error) {
	out, err := pgxutil.CollectOneStruct[model.SavedSearch](ctx, r.DB, pgxutil.Query{
		SQL:  savedSearchGetByIDQuery,
		Args: []any{id},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSavedSearchNotFound
		}
		return nil, fmt.Errorf("get saved search by ID: %w", err)
	}
	return out, nil
}

// List retrieves saved searches, optionally scoped to an owner, newest first.
func (r *SavedSearchRepo) List(ctx context.Context, opts model.SavedSearchListOptions) ([]*model.SavedSearch, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSavedSearchListLimit
	}
	limit = min(limit, maxSavedSearchListLimit)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(strings.Split(compactColumns(savedSearchColumns), ",")...),
		database.WithOrderBy("created_at", "DESC"),
		database.WithOrderBy("id", "ASC"),
		database.WithLimit(limit),
		database.WithOffset(max(opts.Offset, 0)),
	}
	if uid := strings.TrimSpace(opts.UserID); uid != "" {
		queryOpts = append(queryOpts, database.WithCondition(database.WhereCond("user_id", database.Equal, uid)))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("saved_searches", queryOpts...))

	out, err := pgxutil.CollectStructs[model.SavedSearch](ctx, r.DB, pgxutil.Query{SQL: query, Args: args})
	if err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}
	return out, nil
}

// ListAlertCandidates returns daily and weekly searches, most recently updated first.
func (r *SavedSearchRepo) ListAlertCandidates(ctx context.Context, limit int) ([]*model.SavedSearch, error) {
	if limit <= 0 {
		limit = model.DefaultDispatchLimit
	}
	out, err := pgxutil.CollectStructs[model.SavedSearch](ctx, r.DB, pgxutil.Query{
		SQL:  savedSearchCandidatesQuery,
		Args: []any{limit},
	})
	if err != nil {
		return nil, fmt.Errorf("list alert candidates: %w", err)
	}
	return out, nil
}

// Update applies a partial update and bumps updated_at.
func (r *SavedSearchRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateSavedSearchRequest,
) (*model.SavedSearch, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !req.HasUpdates() {
		return r.GetByID(ctx, id)
	}

	setClause, args, err := r.buildUpdateClause(req)
	if err != nil {
		return nil, err
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE saved_searches SET %s WHERE id = $%d RETURNING %s`,
		setClause, len(args), savedSearchColumns)

	out, err := pgxutil.CollectOneStruct[model.SavedSearch](ctx, r.DB, pgxutil.Query{SQL: query, Args: args})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSavedSearchNotFound
		}
		return nil, fmt.Errorf("update saved search: %w", err)
	}
	return out, nil
}

func (r *SavedSearchRepo) buildUpdateClause(req model.UpdateSavedSearchRequest) (string, []any, error) {
	setParts := make([]string, 0, 8)
	args := make([]any, 0, 8)
	set := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Keywords != nil {
		set("keywords", nullableText(*req.Keywords))
	}
	if req.Categories != nil {
		cats, err := model.EncodeCategories(*req.Categories)
		if err != nil {
			return "", nil, err
		}
		set("categories", cats)
	}
	if req.Buyer != nil {
		set("buyer", nullableText(*req.Buyer))
	}
	if req.Status != nil {
		set("status", nullableText(*req.Status))
	}
	if req.ClosingInDays != nil {
		// 0 clears the closing window.
		var days *int
		if *req.ClosingInDays > 0 {
			days = req.ClosingInDays
		}
		set("closing_in_days", days)
	}
	if req.AlertFrequency != nil {
		set("alert_frequency", *req.AlertFrequency)
	}
	set("updated_at", r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args, nil
}

// Delete deletes a saved search by ID.
func (r *SavedSearchRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM saved_searches WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete saved search: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete saved search rows affected: %w", err)
	}
	return n > 0, nil
}

// MarkAlerted records the dispatch time. updated_at is left alone so candidate ordering
// reflects user edits only.
func (r *SavedSearchRepo) MarkAlerted(ctx context.Context, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE saved_searches SET last_alert_sent = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("mark saved search alerted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark saved search alerted rows affected: %w", err)
	}
	if n == 0 {
		return ErrSavedSearchNotFound
	}
	return nil
}

// nullableText maps blank strings to NULL.
func nullableText(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// compactColumns strips whitespace from a comma-separated column list.
func compactColumns(cols string) string {
	return strings.Join(strings.Fields(cols), "")
}
