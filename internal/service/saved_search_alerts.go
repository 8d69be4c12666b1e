package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tenderwatch/tenderwatch-api/config"
	"github.com/tenderwatch/tenderwatch-api/internal/core"
	"github.com/tenderwatch/tenderwatch-api/internal/data"
	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
	"github.com/tenderwatch/tenderwatch-api/internal/observability/metrics"
	"github.com/tenderwatch/tenderwatch-api/internal/observability/statsd"
	"github.com/tenderwatch/tenderwatch-api/internal/ports"
)

// SavedSearchAlertServiceOptions groups dependencies for SavedSearchAlertService.
type SavedSearchAlertServiceOptions struct {
	SavedSearches core.SavedSearchRepository // Required
	Tenders       core.TenderRepository      // Required
	Users         core.UserRepository        // Required
	AlertLogs     core.AlertLogRepository    // Required
	MailLogs      core.MailLogRepository     // Optional: mail sends are not journaled when nil
	Mailer        ports.Mailer               // Required
	Composer      *AlertComposer             // Optional: defaults to links without a base URL

	FailurePolicy config.FailurePolicy // Optional: defaults to isolate
	DefaultLimit  int                  // Optional: defaults to model.DefaultDispatchLimit
	TimeProvider  data.TimeProvider    // Optional: defaults to the real clock
	Logger        *slog.Logger         // Optional
	Metrics       statsd.Sink          // Optional
}

// SavedSearchAlertService re-runs due saved searches against the tender store,
// mails the owners a digest and journals every attempt.
type SavedSearchAlertService struct {
	searches  core.SavedSearchRepository
	tenders   core.TenderRepository
	users     core.UserRepository
	alertLogs core.AlertLogRepository
	mailLogs  core.MailLogRepository
	mailer    ports.Mailer
	composer  *AlertComposer

	policy       config.FailurePolicy
	defaultLimit int
	clock        data.TimeProvider
	logger       *slog.Logger
	metrics      statsd.Sink
}

// NewSavedSearchAlertService constructs a SavedSearchAlertService.
func NewSavedSearchAlertService(opts SavedSearchAlertServiceOptions) (*SavedSearchAlertService, error) {
	switch {
	case opts.SavedSearches == nil:
		return nil, errors.New("SavedSearchRepository is required")
	case opts.Tenders == nil:
		return nil, errors.New("TenderRepository is required")
	case opts.Users == nil:
		return nil, errors.New("UserRepository is required")
	case opts.AlertLogs == nil:
		return nil, errors.New("AlertLogRepository is required")
	case opts.Mailer == nil:
		return nil, errors.New("Mailer is required")
	}

	svc := &SavedSearchAlertService{
		searches:     opts.SavedSearches,
		tenders:      opts.Tenders,
		users:        opts.Users,
		alertLogs:    opts.AlertLogs,
		mailLogs:     opts.MailLogs,
		mailer:       opts.Mailer,
		composer:     opts.Composer,
		policy:       opts.FailurePolicy,
		defaultLimit: opts.DefaultLimit,
		clock:        opts.TimeProvider,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
	}
	if svc.composer == nil {
		svc.composer = NewAlertComposer("")
	}
	if svc.policy == "" {
		svc.policy = config.FailurePolicyIsolate
	}
	if svc.defaultLimit <= 0 {
		svc.defaultLimit = model.DefaultDispatchLimit
	}
	if svc.clock == nil {
		svc.clock = data.RealTimeProvider{}
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	svc.logger = svc.logger.With("component", "saved_search_alerts")
	return svc, nil
}

// searchOutcome describes what happened to one due saved search.
type searchOutcome struct {
	skipped       bool
	found         int
	emailSent     bool
	logWritten    bool
	markAttempted bool
}

// Run evaluates up to limit alert candidates (limit <= 0 uses the default).
// Candidates are processed one at a time in the order returned by the store.
// On error the counters accumulated so far are returned alongside it.
func (s *SavedSearchAlertService) Run(ctx context.Context, limit int) (model.DispatchResult, error) {
	var result model.DispatchResult
	if limit <= 0 {
		limit = s.defaultLimit
	}

	now := s.clock.Now()
	candidates, err := s.searches.ListAlertCandidates(ctx, limit)
	if err != nil {
		return result, fmt.Errorf("list alert candidates: %w", err)
	}

	for _, search := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !search.IsDue(now) {
			continue
		}

		out, err := s.processSearch(ctx, search, now)
		if err != nil {
			proceed := s.handleFailure(ctx, search, &out, now, err)
			tally(&result, out)
			metrics.EmitSearchProcessed(s.metrics, search.AlertFrequency.String(), metrics.ResultError)
			if !proceed {
				return result, fmt.Errorf("saved search %s: %w", search.ID, err)
			}
			result.Failed++
			continue
		}

		tally(&result, out)
		if out.skipped {
			result.Skipped++
			metrics.EmitSearchProcessed(s.metrics, search.AlertFrequency.String(), metrics.ResultSkipped)
			continue
		}
		result.Processed++
		metrics.EmitSearchProcessed(s.metrics, search.AlertFrequency.String(), metrics.ResultSuccess)
	}

	s.logger.InfoContext(ctx, "saved search alert run complete",
		"candidates", len(candidates),
		"processed", result.Processed,
		"emails", result.Emails,
		"total_found", result.TotalFound,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// tally adds the counters of one outcome. Only logged tenders count toward TotalFound.
func tally(result *model.DispatchResult, out searchOutcome) {
	if out.logWritten {
		result.TotalFound += out.found
	}
	if out.emailSent {
		result.Emails++
	}
}

// processSearch evaluates one due search. The returned outcome is meaningful
// even when err is non-nil.
func (s *SavedSearchAlertService) processSearch(
	ctx context.Context,
	search *model.SavedSearch,
	now time.Time,
) (searchOutcome, error) {
	var out searchOutcome
	log := s.logger.With("saved_search_id", search.ID, "user_id", search.UserID)

	user, err := s.users.GetByID(ctx, search.UserID)
	if errors.Is(err, data.ErrUserNotFound) {
		log.DebugContext(ctx, "skipping saved search: owner not found")
		out.skipped = true
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("load owner: %w", err)
	}
	to, ok := user.MailAddress()
	if !ok {
		log.DebugContext(ctx, "skipping saved search: owner has no email")
		out.skipped = true
		return out, nil
	}

	categories, err := search.ParseCategories()
	if err != nil {
		log.WarnContext(ctx, "malformed categories on saved search", "error", err)
		categories = nil
	}

	tenders, err := s.tenders.Search(ctx, search.TenderSearch(now, categories))
	if err != nil {
		return out, fmt.Errorf("search tenders: %w", err)
	}
	out.found = len(tenders)

	// Nothing is mailed without matches; the mail log still records the
	// zero-count subject with status skipped.
	msg := model.MailMessage{To: to, Subject: model.AlertSubject(0, search.Name)}
	status := model.MailStatusSkipped
	var sendErr error
	if out.found > 0 {
		msg = s.composer.Compose(AlertMailInput{
			Search: search, User: user, To: to, Tenders: tenders, Since: search.Since(now),
		})
		sendErr = s.mailer.Send(ctx, msg)
		if sendErr != nil {
			log.WarnContext(ctx, "alert mail send failed", "error", sendErr)
			status = model.MailStatusFailed
		} else {
			out.emailSent = true
			status = model.MailStatusSent
		}
	}

	if _, err := s.alertLogs.Create(ctx, &model.CreateAlertLogRequest{
		UserID:        search.UserID,
		SavedSearchID: search.ID,
		TendersFound:  out.found,
		EmailSent:     out.emailSent,
		Error:         errorText(sendErr),
		CreatedAt:     now,
	}); err != nil {
		s.journalMail(ctx, log, search, msg, status, sendErr, now)
		return out, fmt.Errorf("write alert log: %w", err)
	}
	out.logWritten = true

	s.journalMail(ctx, log, search, msg, status, sendErr, now)

	out.markAttempted = true
	if err := s.searches.MarkAlerted(ctx, search.ID, now); err != nil {
		return out, fmt.Errorf("mark alerted: %w", err)
	}

	log.DebugContext(ctx, "saved search processed",
		"tenders_found", out.found,
		"email_sent", out.emailSent,
	)
	return out, nil
}

// journalMail appends the mail log row. A journal failure does not fail the search.
func (s *SavedSearchAlertService) journalMail(
	ctx context.Context,
	log *slog.Logger,
	search *model.SavedSearch,
	msg model.MailMessage,
	status model.MailStatus,
	sendErr error,
	now time.Time,
) {
	if s.mailLogs == nil {
		return
	}
	if _, err := s.mailLogs.Create(ctx, &model.CreateMailLogRequest{
		UserID:    search.UserID,
		ToAddress: msg.To,
		Subject:   msg.Subject,
		Kind:      model.MailKindSavedSearchAlert,
		Status:    status,
		Error:     errorText(sendErr),
		CreatedAt: now,
	}); err != nil {
		log.WarnContext(ctx, "write mail log failed", "error", err)
	}
}

// handleFailure applies the failure policy and reports whether the run may continue.
// Context cancellation always stops the run. A digest that already went out
// advances last_alert_sent under either policy so it is not mailed twice.
func (s *SavedSearchAlertService) handleFailure(
	ctx context.Context,
	search *model.SavedSearch,
	out *searchOutcome,
	now time.Time,
	err error,
) bool {
	log := s.logger.With("saved_search_id", search.ID, "user_id", search.UserID)
	if ctx.Err() != nil {
		log.ErrorContext(ctx, "saved search alert canceled, aborting run", "error", err)
		return false
	}

	if out.emailSent && !out.markAttempted {
		out.markAttempted = true
		if markErr := s.searches.MarkAlerted(ctx, search.ID, now); markErr != nil {
			log.ErrorContext(ctx, "mark alerted after sent digest", "error", markErr)
		}
	}

	if s.policy == config.FailurePolicyAbort {
		log.ErrorContext(ctx, "saved search alert failed, aborting run", "error", err)
		return false
	}

	log.ErrorContext(ctx, "saved search alert failed", "error", err)
	if out.logWritten {
		return true
	}
	if _, logErr := s.alertLogs.Create(ctx, &model.CreateAlertLogRequest{
		UserID:        search.UserID,
		SavedSearchID: search.ID,
		TendersFound:  out.found,
		EmailSent:     out.emailSent,
		Error:         errorText(err),
		CreatedAt:     s.clock.Now(),
	}); logErr != nil {
		log.ErrorContext(ctx, "write failed alert log", "error", logErr)
		return true
	}
	out.logWritten = true
	return true
}

func errorText(err error) *string {
	if err == nil {
		return nil
	}
	msg := err.Error()
	return &msg
}
