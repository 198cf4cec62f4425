package goproxy

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/CherkashinEvgeny/goproxy/internal/clock"
	"github.com/CherkashinEvgeny/goproxy/internal/metrics"
)

type recordingHandler struct {
	mu    sync.Mutex
	calls []string
	err   error
	panic any
}

func (h *recordingHandler) Handle(_ context.Context, data string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, data)
	if h.panic != nil {
		panic(h.panic)
	}
	return h.err
}

type recordingRecorder struct {
	calls []metrics.Call
}

func (r *recordingRecorder) Observe(call metrics.Call) {
	r.calls = append(r.calls, call)
}

func newObservedLogger(t *testing.T) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core), logs
}

func newStepper() clock.Clock {
	return clock.NewStepper(time.Date(2020, 2, 10, 22, 0, 0, 0, time.UTC), 100*time.Millisecond)
}
