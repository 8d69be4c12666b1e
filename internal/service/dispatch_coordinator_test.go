package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
	"github.com/tenderwatch/tenderwatch-api/internal/mocks"
)

// runnerFunc adapts a function to AlertRunner.
type runnerFunc func(ctx context.Context, limit int) (model.DispatchResult, error)

func (f runnerFunc) Run(ctx context.Context, limit int) (model.DispatchResult, error) { return f(ctx, limit) }

func TestNewDispatchCoordinator_RequiresRunner(t *testing.T) {
	_, err := NewDispatchCoordinator(DispatchCoordinatorOptions{})
	require.Error(t, err)
}

func TestDispatchCoordinator_RunsUnderLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	lock := mocks.NewMockDispatchLock(ctrl)
	lock.EXPECT().
		TryRun(gomock.Any(), DispatchLockName, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, fn func(context.Context) error) (bool, error) {
			return true, fn(ctx)
		})

	var gotLimit int
	runner := runnerFunc(func(_ context.Context, limit int) (model.DispatchResult, error) {
		gotLimit = limit
		return model.DispatchResult{Processed: 2, Emails: 1, TotalFound: 6}, nil
	})
	sink := &recordingSink{}
	c, err := NewDispatchCoordinator(DispatchCoordinatorOptions{Runner: runner, Lock: lock, Metrics: sink})
	require.NoError(t, err)

	res, err := c.Dispatch(context.Background(), TriggerAdmin, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, gotLimit)
	assert.Equal(t, 6, res.TotalFound)
	assert.Equal(t, int64(1), sink.counts["alerts.dispatch.run"])
}

func TestDispatchCoordinator_LockBusy(t *testing.T) {
	ctrl := gomock.NewController(t)
	lock := mocks.NewMockDispatchLock(ctrl)
	lock.EXPECT().TryRun(gomock.Any(), DispatchLockName, gomock.Any()).Return(false, nil)

	runner := runnerFunc(func(context.Context, int) (model.DispatchResult, error) {
		t.Fatal("runner must not run while the lock is held elsewhere")
		return model.DispatchResult{}, nil
	})
	c, err := NewDispatchCoordinator(DispatchCoordinatorOptions{Runner: runner, Lock: lock})
	require.NoError(t, err)

	_, err = c.Dispatch(context.Background(), TriggerCron, 0)
	require.ErrorIs(t, err, ErrDispatchInProgress)
}

func TestDispatchCoordinator_PropagatesRunnerError(t *testing.T) {
	runner := runnerFunc(func(context.Context, int) (model.DispatchResult, error) {
		return model.DispatchResult{Processed: 1}, errors.New("saved search x: boom")
	})
	c, err := NewDispatchCoordinator(DispatchCoordinatorOptions{Runner: runner})
	require.NoError(t, err)

	res, err := c.Dispatch(context.Background(), TriggerCLI, 0)
	require.Error(t, err)
	assert.Equal(t, 1, res.Processed)
}

func TestDispatchCoordinator_AppliesTimeout(t *testing.T) {
	runner := runnerFunc(func(ctx context.Context, _ int) (model.DispatchResult, error) {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
		return model.DispatchResult{}, nil
	})
	c, err := NewDispatchCoordinator(DispatchCoordinatorOptions{Runner: runner, Timeout: time.Minute})
	require.NoError(t, err)

	_, err = c.Dispatch(context.Background(), TriggerScheduler, 0)
	require.NoError(t, err)
}
