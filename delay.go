package goproxy

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DelayHandler simulates work by sleeping before it logs the data.
type DelayHandler struct {
	delay      time.Duration
	bestEffort bool
	logger     *zap.Logger
}

func NewDelayHandler(opts ...Option) *DelayHandler {
	o := newOptions(opts)
	return &DelayHandler{
		delay:      o.delay,
		bestEffort: o.bestEffort,
		logger:     o.logger,
	}
}

func (h *DelayHandler) Handle(ctx context.Context, data string) error {
	timer := time.NewTimer(h.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		err := &InterruptedError{Data: data, Err: ctx.Err()}
		if h.bestEffort {
			h.logger.Error("handle interrupted", zap.Error(err))
			return nil
		}
		return err
	}
	h.logger.Info("handle", zap.String("data", data))
	return nil
}
