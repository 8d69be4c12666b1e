package reaper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tenderwatch/tenderwatch-api/config"
	"github.com/tenderwatch/tenderwatch-api/internal/mocks"
)

func TestNewRunner_RequiresStorage(t *testing.T) {
	_, err := NewRunner(RunnerOptions{Config: config.ReaperConfig{Interval: time.Minute}})
	require.Error(t, err)
}

func TestRunner_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRetentionRepository(ctrl)
	repo.EXPECT().DeleteOldLogs(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()

	r, err := NewRunner(RunnerOptions{
		Repo: repo,
		Config: config.ReaperConfig{
			Interval:       time.Hour,
			AlertLogMaxAge: 24 * time.Hour,
			MailLogMaxAge:  24 * time.Hour,
			BatchSize:      100,
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, r.Run(ctx))
}
