package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

// SavedSearchService is the owner-scoped CRUD surface used by the handlers.
type SavedSearchService interface {
	List(ctx context.Context, userID string, limit, offset int) ([]*model.SavedSearch, error)
	Get(ctx context.Context, userID, id string) (*model.SavedSearch, error)
	Create(ctx context.Context, userID string, req *model.CreateSavedSearchRequest) (*model.SavedSearch, error)
	Update(ctx context.Context, userID, id string, req model.UpdateSavedSearchRequest) (*model.SavedSearch, error)
	Delete(ctx context.Context, userID, id string) error
}

// SavedSearchHandlers serves /api/saved-searches for the signed-in user.
type SavedSearchHandlers struct {
	Svc    SavedSearchService
	Logger *slog.Logger
}

type listResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ownerID returns the session user. RequireAuth guarantees a session on these routes.
func ownerID(r *http.Request) string {
	s, _ := GetSessionFromContext(r.Context())
	if s == nil {
		return ""
	}
	return s.UserID
}

// List handles GET /api/saved-searches.
func (h *SavedSearchHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultListLimit, maxListLimit)
	items, err := h.Svc.List(r.Context(), ownerID(r), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	if items == nil {
		items = []*model.SavedSearch{}
	}
	WriteJSON(w, http.StatusOK, listResponse[*model.SavedSearch]{Items: items, Limit: limit, Offset: offset})
}

// Create handles POST /api/saved-searches.
func (h *SavedSearchHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSavedSearchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	out, err := h.Svc.Create(r.Context(), ownerID(r), &req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, out)
}

// Get handles GET /api/saved-searches/{id}.
func (h *SavedSearchHandlers) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.Get(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// Update handles PUT /api/saved-searches/{id}.
func (h *SavedSearchHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSavedSearchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	out, err := h.Svc.Update(r.Context(), ownerID(r), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/saved-searches/{id}.
func (h *SavedSearchHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
