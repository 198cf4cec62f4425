package goproxy

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayHandlerLogsDataAfterDelay(t *testing.T) {
	logger, logs := newObservedLogger(t)
	h := NewDelayHandler(WithDelay(20*time.Millisecond), WithLogger(logger))

	start := time.Now()
	err := h.Handle(context.Background(), "Test")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	entries := logs.FilterMessage("handle").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Test", entries[0].ContextMap()["data"])
}

func TestDelayHandlerPropagatesInterruption(t *testing.T) {
	logger, logs := newObservedLogger(t)
	h := NewDelayHandler(WithDelay(time.Second), WithLogger(logger))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.Handle(ctx, "Test")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInterrupted))
	assert.True(t, errors.Is(err, context.Canceled))
	var interrupted *InterruptedError
	require.True(t, errors.As(err, &interrupted))
	assert.Equal(t, "Test", interrupted.Data)
	assert.Zero(t, logs.Len())
}

func TestDelayHandlerInterruptedByDeadline(t *testing.T) {
	h := NewDelayHandler(WithDelay(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := h.Handle(ctx, "Test")

	assert.True(t, errors.Is(err, ErrInterrupted))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestDelayHandlerBestEffortSwallowsInterruption(t *testing.T) {
	logger, logs := newObservedLogger(t)
	h := NewDelayHandler(WithDelay(time.Second), WithLogger(logger), WithBestEffort(true))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.Handle(ctx, "Test")

	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("handle interrupted").Len())
	assert.Zero(t, logs.FilterMessage("handle").Len())
}
