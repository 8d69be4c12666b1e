package httpx

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

// Dispatcher runs one saved-search alert pass.
type Dispatcher interface {
	Dispatch(ctx context.Context, trigger string, limit int) (model.DispatchResult, error)
}

// AlertLogLister lists the alert journal.
type AlertLogLister interface {
	List(ctx context.Context, opts model.AlertLogListOptions) ([]*model.AlertLog, error)
}

// CronAuth decides whether a request may use the external scheduler trigger.
type CronAuth struct {
	// Secret enables Bearer and ?secret= authorization. Empty disables both.
	Secret string
	// PlatformHeader, when non-empty, authorizes any request carrying it.
	PlatformHeader string
}

// Authorized reports whether r carries a valid credential.
func (a CronAuth) Authorized(r *http.Request) bool {
	if a.PlatformHeader != "" && r.Header.Get(a.PlatformHeader) != "" {
		return true
	}
	if a.Secret == "" {
		return false
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && secretEqual(token, a.Secret) {
		return true
	}
	if q := r.URL.Query().Get("secret"); q != "" && secretEqual(q, a.Secret) {
		return true
	}
	return false
}

func secretEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// AlertHandlers serves the dispatch triggers and the admin alert journal.
type AlertHandlers struct {
	Dispatcher Dispatcher
	Logs       AlertLogLister
	Cron       CronAuth
	// Limit is passed to every HTTP-triggered dispatch. 0 uses the runner default.
	Limit  int
	Logger *slog.Logger
}

type dispatchResponse struct {
	Success    bool   `json:"success"`
	Processed  int    `json:"processed"`
	Emails     int    `json:"emails"`
	TotalFound int    `json:"totalFound"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	DurationMs *int64 `json:"durationMs,omitempty"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// AdminDispatch handles POST /api/admin/alerts/dispatch.
func (h *AlertHandlers) AdminDispatch(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, service.TriggerAdmin, false)
}

// CronDispatch handles POST|GET /api/cron/saved-search-alerts.
func (h *AlertHandlers) CronDispatch(w http.ResponseWriter, r *http.Request) {
	if !h.Cron.Authorized(r) {
		h.Logger.WarnContext(r.Context(), "cron dispatch rejected", "remote_addr", r.RemoteAddr)
		WriteJSON(w, http.StatusUnauthorized, failureResponse{Error: "unauthorized"})
		return
	}
	h.dispatch(w, r, service.TriggerCron, true)
}

func (h *AlertHandlers) dispatch(w http.ResponseWriter, r *http.Request, trigger string, withDuration bool) {
	start := time.Now()
	res, err := h.Dispatcher.Dispatch(r.Context(), trigger, h.Limit)
	switch {
	case errors.Is(err, service.ErrDispatchInProgress):
		WriteJSON(w, http.StatusConflict, failureResponse{Error: service.ErrDispatchInProgress.Error()})
		return
	case err != nil:
		h.Logger.ErrorContext(r.Context(), "alert dispatch failed", "trigger", trigger, "error", err)
		WriteJSON(w, http.StatusInternalServerError, failureResponse{Error: err.Error()})
		return
	}

	body := dispatchResponse{
		Success:    true,
		Processed:  res.Processed,
		Emails:     res.Emails,
		TotalFound: res.TotalFound,
		Skipped:    res.Skipped,
		Failed:     res.Failed,
	}
	if withDuration {
		ms := time.Since(start).Milliseconds()
		body.DurationMs = &ms
	}
	WriteJSON(w, http.StatusOK, body)
}

// ListLogs handles GET /api/admin/alert-logs.
func (h *AlertHandlers) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultListLimit, maxListLimit)
	opts := model.AlertLogListOptions{Limit: limit, Offset: offset}
	if id := strings.TrimSpace(r.URL.Query().Get("savedSearchId")); id != "" {
		opts.SavedSearchID = &id
	}
	if uid := strings.TrimSpace(r.URL.Query().Get("userId")); uid != "" {
		opts.UserID = &uid
	}

	logs, err := h.Logs.List(r.Context(), opts)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	if logs == nil {
		logs = []*model.AlertLog{}
	}
	WriteJSON(w, http.StatusOK, listResponse[*model.AlertLog]{Items: logs, Limit: limit, Offset: offset})
}
