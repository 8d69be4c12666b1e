package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tenderwatch/tenderwatch-api/config"
	"github.com/tenderwatch/tenderwatch-api/internal/core"
	"github.com/tenderwatch/tenderwatch-api/internal/mocks"
)

func testReaperConfig() config.ReaperConfig {
	return config.ReaperConfig{
		Interval:       time.Hour,
		AlertLogMaxAge: 90 * 24 * time.Hour,
		MailLogMaxAge:  30 * 24 * time.Hour,
		BatchSize:      100,
	}
}

func TestNewReaperService_Validation(t *testing.T) {
	_, err := NewReaperService(ReaperServiceOptions{Config: testReaperConfig()})
	require.Error(t, err)

	ctrl := gomock.NewController(t)
	cfg := testReaperConfig()
	cfg.Interval = 0
	_, err = NewReaperService(ReaperServiceOptions{Repo: mocks.NewMockRetentionRepository(ctrl), Config: cfg})
	require.Error(t, err)
}

func TestReaperService_RunOnce_DrainsBatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRetentionRepository(ctrl)
	cfg := testReaperConfig()

	alertParams := core.DeleteOldLogsParams{Table: core.RetentionTableAlertLogs, MaxAge: cfg.AlertLogMaxAge, BatchSize: 100}
	mailParams := core.DeleteOldLogsParams{Table: core.RetentionTableMailLogs, MaxAge: cfg.MailLogMaxAge, BatchSize: 100}
	gomock.InOrder(
		repo.EXPECT().DeleteOldLogs(gomock.Any(), alertParams).Return(int64(100), nil),
		repo.EXPECT().DeleteOldLogs(gomock.Any(), alertParams).Return(int64(40), nil),
		repo.EXPECT().DeleteOldLogs(gomock.Any(), alertParams).Return(int64(0), nil),
		repo.EXPECT().DeleteOldLogs(gomock.Any(), mailParams).Return(int64(0), nil),
	)

	sink := &recordingSink{}
	svc, err := NewReaperService(ReaperServiceOptions{Repo: repo, Config: cfg, Metrics: sink})
	require.NoError(t, err)

	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Contains(t, sink.counts, "reaper.deleted")
}

func TestReaperService_RunOnce_ContinuesAfterTableFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRetentionRepository(ctrl)

	repo.EXPECT().
		DeleteOldLogs(gomock.Any(), gomock.Cond(func(p core.DeleteOldLogsParams) bool {
			return p.Table == core.RetentionTableAlertLogs
		})).
		Return(int64(0), errors.New("boom"))
	repo.EXPECT().
		DeleteOldLogs(gomock.Any(), gomock.Cond(func(p core.DeleteOldLogsParams) bool {
			return p.Table == core.RetentionTableMailLogs
		})).
		Return(int64(0), nil)

	svc, err := NewReaperService(ReaperServiceOptions{Repo: repo, Config: testReaperConfig()})
	require.NoError(t, err)

	err = svc.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alert_logs")
	assert.Contains(t, err.Error(), "boom")
}

func TestReaperService_Run_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRetentionRepository(ctrl)
	repo.EXPECT().DeleteOldLogs(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()

	cfg := testReaperConfig()
	cfg.Interval = 20 * time.Millisecond
	svc, err := NewReaperService(ReaperServiceOptions{Repo: repo, Config: cfg})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reaper did not stop after cancel")
	}
}
