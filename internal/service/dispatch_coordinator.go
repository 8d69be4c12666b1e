package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
	"github.com/tenderwatch/tenderwatch-api/internal/observability/metrics"
	"github.com/tenderwatch/tenderwatch-api/internal/observability/statsd"
	"github.com/tenderwatch/tenderwatch-api/internal/ports"
)

// DispatchLockName is the lock guarding saved-search alert runs across replicas.
const DispatchLockName = "saved-search-alerts"

// Trigger names tag the origin of a dispatch in logs and metrics.
const (
	TriggerAdmin     = "admin"
	TriggerCron      = "cron"
	TriggerScheduler = "scheduler"
	TriggerCLI       = "cli"
)

// ErrDispatchInProgress is returned when another dispatch holds the lock.
var ErrDispatchInProgress = errors.New("dispatch already in progress")

// AlertRunner runs one saved-search alert pass.
type AlertRunner interface {
	Run(ctx context.Context, limit int) (model.DispatchResult, error)
}

// DispatchCoordinatorOptions groups dependencies for DispatchCoordinator.
type DispatchCoordinatorOptions struct {
	Runner  AlertRunner        // Required
	Lock    ports.DispatchLock // Optional: runs unguarded when nil
	Timeout time.Duration      // Optional: bounds a single run
	Logger  *slog.Logger       // Optional
	Metrics statsd.Sink        // Optional
}

// DispatchCoordinator is the single entry point every trigger uses to run alerts.
type DispatchCoordinator struct {
	runner  AlertRunner
	lock    ports.DispatchLock
	timeout time.Duration
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewDispatchCoordinator constructs a DispatchCoordinator.
func NewDispatchCoordinator(opts DispatchCoordinatorOptions) (*DispatchCoordinator, error) {
	if opts.Runner == nil {
		return nil, errors.New("AlertRunner is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DispatchCoordinator{
		runner:  opts.Runner,
		lock:    opts.Lock,
		timeout: opts.Timeout,
		logger:  logger.With("component", "dispatch_coordinator"),
		metrics: opts.Metrics,
	}, nil
}

// Dispatch runs one alert pass under the dispatch lock.
// It returns ErrDispatchInProgress without running when the lock is held elsewhere.
func (c *DispatchCoordinator) Dispatch(ctx context.Context, trigger string, limit int) (model.DispatchResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	var result model.DispatchResult
	run := func(ctx context.Context) error {
		var err error
		result, err = c.runner.Run(ctx, limit)
		return err
	}

	var err error
	if c.lock == nil {
		err = run(ctx)
	} else {
		var acquired bool
		acquired, err = c.lock.TryRun(ctx, DispatchLockName, run)
		if err == nil && !acquired {
			err = ErrDispatchInProgress
		}
	}
	elapsed := time.Since(start)

	log := c.logger.With("trigger", trigger, "duration_ms", elapsed.Milliseconds())
	switch {
	case errors.Is(err, ErrDispatchInProgress):
		log.InfoContext(ctx, "dispatch skipped: already in progress")
		metrics.EmitDispatch(c.metrics, metrics.DispatchMetric{Trigger: trigger, Result: metrics.ResultBusy})
	case err != nil:
		log.ErrorContext(ctx, "dispatch failed", "error", err,
			"processed", result.Processed, "total_found", result.TotalFound)
		metrics.EmitDispatch(c.metrics, metrics.DispatchMetric{
			Trigger: trigger, Result: metrics.ResultError, Duration: elapsed, Err: err,
		})
	default:
		log.InfoContext(ctx, "dispatch complete",
			"processed", result.Processed,
			"emails", result.Emails,
			"total_found", result.TotalFound,
		)
		metrics.EmitDispatch(c.metrics, metrics.DispatchMetric{
			Trigger: trigger, Result: metrics.ResultSuccess, Duration: elapsed, TotalFound: result.TotalFound,
		})
	}
	return result, err
}
