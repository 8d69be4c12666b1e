package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tenderwatch/tenderwatch-api/config"
	"github.com/tenderwatch/tenderwatch-api/internal/core"
	"github.com/tenderwatch/tenderwatch-api/internal/observability/metrics"
	"github.com/tenderwatch/tenderwatch-api/internal/observability/statsd"
)

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Repo    core.RetentionRepository // Required
	Config  config.ReaperConfig      // Required
	Logger  *slog.Logger             // Optional
	Metrics statsd.Sink              // Optional
}

// ReaperService deletes aged alert and mail log rows on an interval.
type ReaperService struct {
	repo    core.RetentionRepository
	config  config.ReaperConfig
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Repo == nil {
		return nil, errors.New("RetentionRepository is required")
	}
	if opts.Config.Interval <= 0 {
		return nil, errors.New("reaper interval must be positive")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "reaper_service")
	logger.Debug("ReaperService initialized",
		"interval", opts.Config.Interval,
		"alert_log_max_age", opts.Config.AlertLogMaxAge,
		"mail_log_max_age", opts.Config.MailLogMaxAge,
	)
	return &ReaperService{repo: opts.Repo, config: opts.Config, logger: logger, metrics: opts.Metrics}, nil
}

// Run cleans up once after a small jitter and then on every tick until ctx ends.
// Returns nil on graceful shutdown.
func (s *ReaperService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting reaper service", "interval", s.config.Interval)
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		if ctx.Err() == nil {
			if err := s.RunOnce(ctx); err != nil && !isContextCancellation(err) {
				s.logger.ErrorContext(ctx, "reaper cleanup failed", "error", err)
			}
		}

		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "reaper service stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce deletes aged rows from every log table. Failures on one table
// do not prevent cleanup of the others.
func (s *ReaperService) RunOnce(ctx context.Context) error {
	steps := []struct {
		table  core.RetentionTable
		maxAge time.Duration
	}{
		{core.RetentionTableAlertLogs, s.config.AlertLogMaxAge},
		{core.RetentionTableMailLogs, s.config.MailLogMaxAge},
	}

	var errs []error
	for _, step := range steps {
		n, err := s.drain(ctx, step.table, step.maxAge)
		metrics.EmitReaperDeleted(s.metrics, string(step.table), n)
		if n > 0 {
			s.logger.InfoContext(ctx, "deleted old log rows",
				"table", step.table, "count", n, "max_age", step.maxAge)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.table, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cleanup failed: %w", errors.Join(errs...))
	}
	return nil
}

// drain deletes batches until a batch comes back empty.
func (s *ReaperService) drain(ctx context.Context, table core.RetentionTable, maxAge time.Duration) (int64, error) {
	var total int64
	for {
		n, err := s.repo.DeleteOldLogs(ctx, core.DeleteOldLogsParams{
			Table:     table,
			MaxAge:    maxAge,
			BatchSize: s.config.BatchSize,
		})
		if err != nil {
			return total, err
		}
		total += n
		if n == 0 {
			return total, nil
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
	}
}

// waitWithJitter sleeps up to 10% of the interval so replicas started together spread out.
func (s *ReaperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}
	jitter := time.Duration(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)) // #nosec G115 -- bounded by maxJitter

	timer := time.NewTimer(jitter)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func isContextCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
