package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tenderwatch/tenderwatch-api/internal/data/pgxutil"
	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

const userColumns = `id, email, name, role, created_at, updated_at`

// UserRepo provides database operations for users.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	out, err := pgxutil.CollectOneStruct[model.User](ctx, r.DB, pgxutil.Query{
		SQL:  `SELECT ` + userColumns + ` FROM users WHERE id = $1`,
		Args: []any{id},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by ID: %w", err)
	}
	return out, nil
}

// Upsert creates the user or refreshes email, name and role on conflict.
func (r *UserRepo) Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("upsert user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var email *string
	if req.Email != nil {
		email = nullableText(*req.Email)
	}
	now := r.timeProvider.Now().UTC()

	out, err := pgxutil.CollectOneStruct[model.User](ctx, r.DB, pgxutil.Query{
		SQL: `
			INSERT INTO users (id, email, name, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (id) DO UPDATE SET
				email = COALESCE(EXCLUDED.email, users.email),
				name = EXCLUDED.name,
				role = EXCLUDED.role,
				updated_at = EXCLUDED.updated_at
			RETURNING ` + userColumns,
		Args: []any{strings.TrimSpace(req.ID), email, strings.TrimSpace(req.Name), req.Role, now},
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return out, nil
}
