package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockPrefix = "tenderwatch:lock:"
	defaultLockTTL    = 15 * time.Minute
	releaseTimeout    = 5 * time.Second
)

// releaseScript deletes the lock only while it still holds our token, so a
// run that outlived its TTL cannot drop a lock taken by the next run.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// DispatchLockOptions configures a DispatchLock.
type DispatchLockOptions struct {
	Client redis.UniversalClient // Required
	TTL    time.Duration         // Optional: defaults to 15m
	Prefix string                // Optional
	Logger *slog.Logger          // Optional
}

// DispatchLock is a SET NX PX marker with a per-holder token.
type DispatchLock struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewDispatchLock constructs a DispatchLock.
func NewDispatchLock(opts DispatchLockOptions) (*DispatchLock, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	l := &DispatchLock{client: opts.Client, ttl: opts.TTL, prefix: opts.Prefix, logger: opts.Logger}
	if l.ttl <= 0 {
		l.ttl = defaultLockTTL
	}
	if l.prefix == "" {
		l.prefix = defaultLockPrefix
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	l.logger = l.logger.With("component", "redis_dispatch_lock")
	return l, nil
}

// TryRun runs fn while holding the named lock. It returns (false, nil) without
// calling fn when another holder has it.
func (l *DispatchLock) TryRun(ctx context.Context, name string, fn func(context.Context) error) (bool, error) {
	key := l.prefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !ok {
		return false, nil
	}

	defer l.release(ctx, key, token)
	return true, fn(ctx)
}

func (l *DispatchLock) release(ctx context.Context, key, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		l.logger.WarnContext(ctx, "release dispatch lock failed", "key", key, "error", err)
	}
}
