package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tenderwatch/tenderwatch-api/internal/data/database"
	"github.com/tenderwatch/tenderwatch-api/internal/data/pgxutil"
	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

var tenderColumns = []string{
	"id", "ocid", "title", "description", "buyer_name", "main_category",
	"status", "published_at", "closing_at", "url",
}

// TenderRepo reads and loads the tender store.
type TenderRepo struct {
	DB *sql.DB
}

// NewTenderRepo creates a new TenderRepo.
func NewTenderRepo(db *sql.DB) *TenderRepo {
	return &TenderRepo{DB: db}
}

// Search returns tenders matching q, most recently published first.
func (r *TenderRepo) Search(ctx context.Context, q model.TenderSearch) ([]*model.Tender, error) {
	query, args := buildTenderSearchQuery(q)
	out, err := pgxutil.CollectStructs[model.Tender](ctx, r.DB, pgxutil.Query{SQL: query, Args: args})
	if err != nil {
		return nil, fmt.Errorf("search tenders: %w", err)
	}
	return out, nil
}

func buildTenderSearchQuery(q model.TenderSearch) (string, []any) {
	limit := q.Limit
	if limit <= 0 || limit > model.MaxTendersPerAlert {
		limit = model.MaxTendersPerAlert
	}

	opts := []database.ListQueryOption{
		database.WithColumns(tenderColumns...),
		database.WithCondition(database.WhereCond("published_at", database.GreaterThanOrEqual, q.PublishedSince)),
	}

	if q.Keywords != nil && *q.Keywords != "" {
		pattern := likePattern(*q.Keywords)
		opts = append(opts, database.WithCondition(database.WhereOr(
			database.WhereCond("title", database.ILike, pattern),
			database.WhereCond("description", database.ILike, pattern),
			database.WhereCond("buyer_name", database.ILike, pattern),
		)))
	}
	if len(q.Categories) > 0 {
		opts = append(opts, database.WithCondition(database.WhereCond("main_category", database.Any, q.Categories)))
	}
	if q.Buyer != nil && *q.Buyer != "" {
		opts = append(opts, database.WithCondition(
			database.WhereCond("buyer_name", database.ILike, likePattern(*q.Buyer)),
		))
	}
	if q.ClosingFrom != nil && q.ClosingTo != nil {
		opts = append(opts, database.WithCondition(
			database.WhereRawCond(`"closing_at" BETWEEN $1 AND $2`, *q.ClosingFrom, *q.ClosingTo),
		))
	}
	if q.Status != nil && *q.Status != "" {
		opts = append(opts, database.WithCondition(database.WhereCond("status", database.Equal, *q.Status)))
	}

	opts = append(opts,
		database.WithOrderBy("published_at", "DESC"),
		database.WithOrderBy("id", "ASC"),
		database.WithLimit(limit),
	)
	return database.BuildListQuery(database.NewListQueryOptions("tenders", opts...))
}

// likePattern wraps s for a substring ILIKE match, escaping LIKE metacharacters.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// Upsert inserts or refreshes a tender keyed by OCID.
func (r *TenderRepo) Upsert(ctx context.Context, req *model.UpsertTenderRequest) (*model.Tender, error) {
	if req == nil {
		return nil, errors.New("upsert tender request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	out, err := pgxutil.CollectOneStruct[model.Tender](ctx, r.DB, pgxutil.Query{
		SQL: `
			INSERT INTO tenders (ocid, title, description, buyer_name, main_category, status, published_at, closing_at, url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (ocid) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				buyer_name = EXCLUDED.buyer_name,
				main_category = EXCLUDED.main_category,
				status = EXCLUDED.status,
				published_at = EXCLUDED.published_at,
				closing_at = EXCLUDED.closing_at,
				url = EXCLUDED.url
			RETURNING ` + strings.Join(tenderColumns, ", "),
		Args: []any{
			req.OCID, req.Title, req.Description, req.BuyerName, req.MainCategory,
			req.Status, req.PublishedAt.UTC(), req.ClosingAt, req.URL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upsert tender: %w", err)
	}
	return out, nil
}

// UpsertBatch loads many tenders in one transaction and returns the number written.
func (r *TenderRepo) UpsertBatch(ctx context.Context, reqs []*model.UpsertTenderRequest) (int, error) {
	for i, req := range reqs {
		req.Normalize()
		if err := req.Validate(); err != nil {
			return 0, fmt.Errorf("tender %d: %w", i, err)
		}
	}

	written := 0
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, req := range reqs {
			batch.Queue(`
				INSERT INTO tenders (ocid, title, description, buyer_name, main_category, status, published_at, closing_at, url)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (ocid) DO UPDATE SET
					title = EXCLUDED.title,
					description = EXCLUDED.description,
					buyer_name = EXCLUDED.buyer_name,
					main_category = EXCLUDED.main_category,
					status = EXCLUDED.status,
					published_at = EXCLUDED.published_at,
					closing_at = EXCLUDED.closing_at,
					url = EXCLUDED.url`,
				req.OCID, req.Title, req.Description, req.BuyerName, req.MainCategory,
				req.Status, req.PublishedAt.UTC(), req.ClosingAt, req.URL)
		}
		results := tx.SendBatch(ctx, batch)
		for range reqs {
			ct, err := results.Exec()
			if err != nil {
				_ = results.Close()
				return err
			}
			written += int(ct.RowsAffected())
		}
		return results.Close()
	}})
	if err != nil {
		return 0, fmt.Errorf("upsert tenders: %w", err)
	}
	return written, nil
}
