package ports

import "context"

// DispatchLock provides cluster-wide mutual exclusion for a named task.
type DispatchLock interface {
	// TryRun runs fn while holding the lock named name. When the lock is held
	// elsewhere fn is not called and TryRun returns (false, nil). Otherwise it
	// returns true and fn's error.
	TryRun(ctx context.Context, name string, fn func(ctx context.Context) error) (bool, error)
}
