package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/tenderwatch/tenderwatch-api/config"
	"github.com/tenderwatch/tenderwatch-api/internal/bootstrap"
)

type connectInfraOptions struct {
	Logger    *slog.Logger
	Config    *config.AppConfig
	WantRedis bool
}

// connectInfra opens Postgres and, when requested and configured, Redis.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel support flexible.
func connectInfra(opts *connectInfraOptions) (*sql.DB, redis.UniversalClient, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: opts.Config.Postgres, Logger: opts.Logger})
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}
	if !opts.WantRedis {
		return db, nil, nil
	}
	if !opts.Config.Redis.Configured() {
		opts.Logger.Info("no redis configuration detected; skipping redis connection")
		return db, nil, nil
	}

	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: opts.Config.Redis, Logger: opts.Logger})
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close db: %w", closeErr))
		}
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return db, client, nil
}

func closeInfra(db *sql.DB, redisClient redis.UniversalClient) error {
	var closeErr error
	if db != nil {
		if err := db.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close db: %w", err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis: %w", err))
		}
	}
	return closeErr
}
