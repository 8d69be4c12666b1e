package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tenderwatch/tenderwatch-api/config"
	"github.com/tenderwatch/tenderwatch-api/internal/bootstrap"
	"github.com/tenderwatch/tenderwatch-api/internal/data"
	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

const (
	defaultDispatchTimeout = 10 * time.Minute
	defaultQueryTimeout    = 30 * time.Second
	defaultListLimit       = 50
)

type dispatchOptions struct {
	Limit   int
	Timeout time.Duration
	Query   string
}

type alertLogsOptions struct {
	Limit         int
	Offset        int
	SavedSearchID string
	UserID        string
	Query         string
}

type savedSearchesOptions struct {
	UserID string
	Limit  int
	Offset int
	Query  string
}

func parseDispatchFlags(args []string) (dispatchOptions, error) {
	fs := flag.NewFlagSet("dispatch-alerts", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dispatchOptions{}
	fs.IntVar(&opts.Limit, "limit", 0, "Maximum saved searches to examine (0 uses ALERTS_DEFAULT_LIMIT)")
	fs.DurationVar(&opts.Timeout, "timeout", defaultDispatchTimeout, "Maximum duration of the dispatch")
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression applied to the JSON summary")

	if err := fs.Parse(args); err != nil {
		return dispatchOptions{}, err
	}
	if opts.Limit < 0 {
		return dispatchOptions{}, errors.New("--limit cannot be negative")
	}
	if opts.Timeout <= 0 {
		return dispatchOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, validateQuery(opts.Query)
}

func parseAlertLogsFlags(args []string) (alertLogsOptions, error) {
	fs := flag.NewFlagSet("alert-logs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := alertLogsOptions{}
	fs.IntVar(&opts.Limit, "limit", defaultListLimit, "Maximum entries to print")
	fs.IntVar(&opts.Offset, "offset", 0, "Entries to skip")
	fs.StringVar(&opts.SavedSearchID, "saved-search", "", "Only entries for this saved search ID")
	fs.StringVar(&opts.UserID, "user", "", "Only entries for this user ID")
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression applied to the JSON output")

	if err := fs.Parse(args); err != nil {
		return alertLogsOptions{}, err
	}
	if opts.Limit <= 0 {
		return alertLogsOptions{}, errors.New("--limit must be greater than zero")
	}
	if opts.Offset < 0 {
		return alertLogsOptions{}, errors.New("--offset cannot be negative")
	}
	return opts, validateQuery(opts.Query)
}

func parseSavedSearchesFlags(args []string) (savedSearchesOptions, error) {
	fs := flag.NewFlagSet("saved-searches", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := savedSearchesOptions{}
	fs.StringVar(&opts.UserID, "user", "", "Only searches owned by this user ID")
	fs.IntVar(&opts.Limit, "limit", defaultListLimit, "Maximum searches to print")
	fs.IntVar(&opts.Offset, "offset", 0, "Searches to skip")
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression applied to the JSON output")

	if err := fs.Parse(args); err != nil {
		return savedSearchesOptions{}, err
	}
	if opts.Limit <= 0 {
		return savedSearchesOptions{}, errors.New("--limit must be greater than zero")
	}
	if opts.Offset < 0 {
		return savedSearchesOptions{}, errors.New("--offset cannot be negative")
	}
	return opts, validateQuery(opts.Query)
}

func optionalString(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// runDispatchAlerts goes through the same coordinator and lock as the HTTP and cron triggers.
func runDispatchAlerts(cmdCtx *commandContext, args []string) error {
	opts, err := parseDispatchFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	cfg := cmdCtx.Config
	db, redisClient, err := connectInfra(&connectInfraOptions{
		Logger:    cmdCtx.Logger,
		Config:    &cfg,
		WantRedis: cfg.Alerts.LockBackend == config.LockBackendRedis,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeInfra(db, redisClient); closeErr != nil {
			cmdCtx.Logger.Warn("close infrastructure failed", "error", closeErr)
		}
	}()

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      cmdCtx.Logger,
		SkipAuth:    true,
	})
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	defer func() { _ = services.Close() }()

	res, err := services.Dispatcher.Dispatch(ctx, service.TriggerCLI, opts.Limit)
	if errors.Is(err, service.ErrDispatchInProgress) {
		return errors.New("another dispatch is already running; try again later")
	}
	if err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return printJSON(cmdCtx.Out, res, opts.Query)
}

func runAlertLogs(cmdCtx *commandContext, args []string) error {
	opts, err := parseAlertLogsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultQueryTimeout, func(ctx context.Context, db *sql.DB) error {
		logs, listErr := data.NewAlertLogRepo(db).List(ctx, model.AlertLogListOptions{
			SavedSearchID: optionalString(opts.SavedSearchID),
			UserID:        optionalString(opts.UserID),
			Limit:         opts.Limit,
			Offset:        opts.Offset,
		})
		if listErr != nil {
			return fmt.Errorf("list alert logs: %w", listErr)
		}
		return printJSON(cmdCtx.Out, logs, opts.Query)
	})
}

func runSavedSearches(cmdCtx *commandContext, args []string) error {
	opts, err := parseSavedSearchesFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultQueryTimeout, func(ctx context.Context, db *sql.DB) error {
		searches, listErr := data.NewSavedSearchRepo(db).List(ctx, model.SavedSearchListOptions{
			UserID: strings.TrimSpace(opts.UserID),
			Limit:  opts.Limit,
			Offset: opts.Offset,
		})
		if listErr != nil {
			return fmt.Errorf("list saved searches: %w", listErr)
		}
		return printJSON(cmdCtx.Out, searches, opts.Query)
	})
}
