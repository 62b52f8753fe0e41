package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manufacturer-quality/internal/common/config"
	"manufacturer-quality/internal/common/logger"
	"manufacturer-quality/internal/manufacturing/quality"
)

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "connect")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	err = retryWithBackoff(context.Background(), func() error { return errors.New("down") }, 2, time.Millisecond, log, "connect")
	assert.ErrorContains(t, err, "connect failed after 2 attempts")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = retryWithBackoff(ctx, func() error { return errors.New("down") }, 3, time.Hour, log, "connect")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildHandlers_CoversRegistry(t *testing.T) {
	reg, err := loadRegistry("")
	require.NoError(t, err)

	cfg := &config.Config{Workers: map[string]config.WorkerConfig{}}
	handlers := buildHandlers(cfg, quality.NewService(nil, nil), logger.NewNoOpLogger())

	require.Len(t, handlers, len(reg.Activities))
	for _, a := range reg.Activities {
		assert.Contains(t, handlers, a.TaskType)
	}
}
