// Package reaper wires the log retention reaper to Postgres.
package reaper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tenderwatch/tenderwatch-api/config"
	"github.com/tenderwatch/tenderwatch-api/internal/core"
	"github.com/tenderwatch/tenderwatch-api/internal/data"
	"github.com/tenderwatch/tenderwatch-api/internal/observability/statsd"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

// Runner runs the retention loop until its context is cancelled.
type Runner struct {
	reaper *service.ReaperService
	logger *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.ReaperConfig
	Logger *slog.Logger

	// Repo overrides the Postgres retention repository.
	Repo    core.RetentionRepository
	Metrics statsd.Sink
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.DB == nil && opts.Repo == nil {
		return nil, errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	repo := opts.Repo
	if repo == nil {
		repo = data.NewRetentionRepo(opts.DB)
	}
	reaper, err := service.NewReaperService(service.ReaperServiceOptions{
		Repo:    repo,
		Config:  opts.Config,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire reaper service: %w", err)
	}
	return &Runner{reaper: reaper, logger: opts.Logger}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting retention reaper")
	return r.reaper.Run(ctx)
}
