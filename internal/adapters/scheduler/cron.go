// Package scheduler runs saved-search alert dispatches on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

// Dispatcher runs one alert pass. *service.DispatchCoordinator satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, trigger string, limit int) (model.DispatchResult, error)
}

// Options holds the dependencies for a CronScheduler.
type Options struct {
	Dispatcher Dispatcher // Required
	Spec       string     // Required: five-field cron expression
	Limit      int        // Optional: 0 lets the runner apply its default
	RunOnStart bool
	Location   *time.Location // Optional: defaults to UTC
	Logger     *slog.Logger   // Optional
}

// CronScheduler fires a dispatch every time Spec matches.
type CronScheduler struct {
	cron       *cron.Cron
	dispatcher Dispatcher
	spec       string
	limit      int
	runOnStart bool
	logger     *slog.Logger
}

// New validates opts and registers the dispatch job.
func New(opts Options) (*CronScheduler, error) {
	if opts.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if _, err := cron.ParseStandard(opts.Spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", opts.Spec, err)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CronScheduler{
		cron:       cron.New(cron.WithLocation(opts.Location)),
		dispatcher: opts.Dispatcher,
		spec:       opts.Spec,
		limit:      opts.Limit,
		runOnStart: opts.RunOnStart,
		logger:     logger.With("component", "alert_scheduler"),
	}, nil
}

// Run starts the cron loop and blocks until ctx is done. In-flight
// dispatches are waited for before Run returns.
func (s *CronScheduler) Run(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.fire(ctx) }); err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}

	s.logger.InfoContext(ctx, "alert scheduler started", "cron", s.spec, "run_on_start", s.runOnStart)
	var wg sync.WaitGroup
	s.cron.Start()
	if s.runOnStart {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.fire(ctx)
		}()
	}

	<-ctx.Done()
	<-s.cron.Stop().Done()
	wg.Wait()
	s.logger.Info("alert scheduler stopped")
	return nil
}

// fire runs one scheduled dispatch. Errors are logged and never stop the schedule.
func (s *CronScheduler) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	_, err := s.dispatcher.Dispatch(ctx, service.TriggerScheduler, s.limit)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrDispatchInProgress):
		s.logger.InfoContext(ctx, "scheduled dispatch skipped: another run holds the lock")
	case errors.Is(err, context.Canceled):
	default:
		s.logger.ErrorContext(ctx, "scheduled dispatch failed", "error", err)
	}
}
