package goproxy

import (
	"context"

	"go.uber.org/zap"

	"github.com/CherkashinEvgeny/goproxy/internal/clock"
	"github.com/CherkashinEvgeny/goproxy/internal/metrics"
)

// TimingHandler logs how long its delegate takes to handle data. Failed calls
// are returned as is and are not timed.
type TimingHandler struct {
	impl     Handler
	logger   *zap.Logger
	clock    clock.Clock
	recorder metrics.Recorder
}

func NewTimingHandler(impl Handler, opts ...Option) *TimingHandler {
	if impl == nil {
		panic("goproxy: nil delegate")
	}
	o := newOptions(opts)
	return &TimingHandler{
		impl:     impl,
		logger:   o.logger,
		clock:    o.clock,
		recorder: o.recorder,
	}
}

func (h *TimingHandler) Handle(ctx context.Context, data string) error {
	start := h.clock.Now()
	err := h.impl.Handle(ctx, data)
	if err != nil {
		return err
	}
	elapsed := h.clock.Now().Sub(start)
	h.logger.Info("cost", zap.Int64("ms", elapsed.Milliseconds()))
	h.recorder.Observe(metrics.Call{
		Strategy: metrics.StrategyStatic,
		Method:   "Handle",
		Elapsed:  elapsed,
	})
	return nil
}
