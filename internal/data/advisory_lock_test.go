package data

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderwatch/tenderwatch-api/internal/testutil"
)

func TestAdvisoryLock_TryRun(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithTestDB(t, func(db *sql.DB) {
		lock := NewAdvisoryLock(db)
		ctx := context.Background()

		t.Run("runs fn when free", func(t *testing.T) {
			executed := false
			locked, err := lock.TryRun(ctx, "saved-search-alerts", func(context.Context) error {
				executed = true
				return nil
			})
			require.NoError(t, err)
			assert.True(t, locked)
			assert.True(t, executed)
		})

		t.Run("returns fn error", func(t *testing.T) {
			want := errors.New("dispatch failed")
			locked, err := lock.TryRun(ctx, "saved-search-alerts", func(context.Context) error { return want })
			assert.True(t, locked)
			assert.Equal(t, want, err)
		})

		t.Run("concurrent callers", func(t *testing.T) {
			ready := make(chan struct{})
			results := make(chan bool, 2)
			var wg sync.WaitGroup
			for range 2 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-ready
					locked, err := lock.TryRun(ctx, "concurrent-dispatch", func(context.Context) error {
						time.Sleep(100 * time.Millisecond)
						return nil
					})
					assert.NoError(t, err)
					results <- locked
				}()
			}
			close(ready)
			wg.Wait()
			close(results)

			acquired := 0
			for locked := range results {
				if locked {
					acquired++
				}
			}
			assert.Equal(t, 1, acquired, "exactly one caller should hold the lock")
		})
	})
}

func TestFnvHash(t *testing.T) {
	assert.Equal(t, fnvHash("saved-search-alerts"), fnvHash("saved-search-alerts"))
	assert.NotEqual(t, fnvHash("saved-search-alerts"), fnvHash("retention"))
}
