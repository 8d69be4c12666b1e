package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tenderwatch/tenderwatch-api/internal/core"
	"github.com/tenderwatch/tenderwatch-api/internal/data"
	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
	apperrors "github.com/tenderwatch/tenderwatch-api/internal/errors"
)

// SavedSearchServiceOptions groups dependencies for SavedSearchService.
type SavedSearchServiceOptions struct {
	Repo core.SavedSearchRepository
}

// SavedSearchService provides owner-scoped saved search CRUD.
// Searches owned by someone else are reported as not found.
type SavedSearchService struct {
	repo core.SavedSearchRepository
}

// NewSavedSearchService constructs a new SavedSearchService.
func NewSavedSearchService(opts SavedSearchServiceOptions) *SavedSearchService {
	return &SavedSearchService{repo: opts.Repo}
}

// List returns the caller's saved searches.
func (s *SavedSearchService) List(ctx context.Context, userID string, limit, offset int) ([]*model.SavedSearch, error) {
	out, err := s.repo.List(ctx, model.SavedSearchListOptions{UserID: userID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// Get returns a saved search owned by userID.
func (s *SavedSearchService) Get(ctx context.Context, userID, id string) (*model.SavedSearch, error) {
	ss, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapSavedSearchError(err)
	}
	if ss.UserID != userID {
		return nil, apperrors.NotFound("saved search not found")
	}
	return ss, nil
}

// Create validates req and stores it for userID.
func (s *SavedSearchService) Create(
	ctx context.Context,
	userID string,
	req *model.CreateSavedSearchRequest,
) (*model.SavedSearch, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	req.UserID = userID
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	out, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, mapSavedSearchError(err)
	}
	return out, nil
}

// Update applies a partial update to a saved search owned by userID.
func (s *SavedSearchService) Update(
	ctx context.Context,
	userID, id string,
	req model.UpdateSavedSearchRequest,
) (*model.SavedSearch, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	out, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, mapSavedSearchError(err)
	}
	return out, nil
}

// Delete removes a saved search owned by userID.
func (s *SavedSearchService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if !deleted {
		return apperrors.NotFound("saved search not found")
	}
	return nil
}

func mapSavedSearchError(err error) error {
	switch {
	case errors.Is(err, data.ErrSavedSearchNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "saved search not found")
	case errors.Is(err, model.ErrMalformedCategories):
		return apperrors.ValidationField("categories", "categories must be an array of strings")
	}
	mapped := apperrors.MapDBError(err)
	if apperrors.GetCode(mapped) == "" {
		return fmt.Errorf("saved search: %w", err)
	}
	return mapped
}

// AlertLogService exposes the alert journal to administrators.
type AlertLogService struct {
	repo core.AlertLogRepository
}

// NewAlertLogService constructs a new AlertLogService.
func NewAlertLogService(repo core.AlertLogRepository) *AlertLogService {
	return &AlertLogService{repo: repo}
}

// List returns alert logs newest first.
func (s *AlertLogService) List(ctx context.Context, opts model.AlertLogListOptions) ([]*model.AlertLog, error) {
	out, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}
