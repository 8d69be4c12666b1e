package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

type fakeDispatcher struct {
	mu       sync.Mutex
	triggers []string
	limits   []int
	err      error
	called   chan struct{}
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{called: make(chan struct{}, 8)}
}

func (f *fakeDispatcher) Dispatch(_ context.Context, trigger string, limit int) (model.DispatchResult, error) {
	f.mu.Lock()
	f.triggers = append(f.triggers, trigger)
	f.limits = append(f.limits, limit)
	f.mu.Unlock()
	select {
	case f.called <- struct{}{}:
	default:
	}
	return model.DispatchResult{}, f.err
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{Spec: "0 * * * *"})
	require.Error(t, err)

	_, err = New(Options{Dispatcher: newFakeDispatcher(), Spec: "not a cron"})
	require.Error(t, err)

	s, err := New(Options{Dispatcher: newFakeDispatcher(), Spec: "*/5 * * * *"})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestCronScheduler_RunOnStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDispatcher()
	s, err := New(Options{Dispatcher: d, Spec: "0 0 1 1 *", Limit: 25, RunOnStart: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-d.called:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch was not triggered on start")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Equal(t, []string{service.TriggerScheduler}, d.triggers)
	assert.Equal(t, []int{25}, d.limits)
}

func TestCronScheduler_FiresOnSchedule(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := newFakeDispatcher()
	d.err = service.ErrDispatchInProgress
	s, err := New(Options{Dispatcher: d, Spec: "@every 1s"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-d.called:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled dispatch did not fire")
	}
	cancel()
	require.NoError(t, <-done)
}

func TestCronScheduler_FireSkipsWhenCanceled(t *testing.T) {
	d := newFakeDispatcher()
	d.err = errors.New("boom")
	s, err := New(Options{Dispatcher: d, Spec: "0 * * * *"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.fire(ctx)
	assert.Empty(t, d.triggers)

	s.fire(context.Background())
	assert.Len(t, d.triggers, 1)
}
