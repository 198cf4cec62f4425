package goproxy

import (
	"time"

	"go.uber.org/zap"

	"github.com/CherkashinEvgeny/goproxy/internal/clock"
	"github.com/CherkashinEvgeny/goproxy/internal/metrics"
)

const DefaultDelay = 100 * time.Millisecond

type Option func(o *options)

type options struct {
	logger     *zap.Logger
	clock      clock.Clock
	recorder   metrics.Recorder
	delay      time.Duration
	bestEffort bool
}

func newOptions(opts []Option) options {
	o := options{
		logger:   zap.NewNop(),
		clock:    clock.Real{},
		recorder: metrics.Nop,
		delay:    DefaultDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock elapsed times are measured with.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func WithRecorder(recorder metrics.Recorder) Option {
	return func(o *options) {
		if recorder != nil {
			o.recorder = recorder
		}
	}
}

// WithDelay sets the simulated work duration of a DelayHandler.
func WithDelay(delay time.Duration) Option {
	return func(o *options) {
		o.delay = delay
	}
}

// WithBestEffort makes a DelayHandler log and swallow interruptions instead
// of returning them.
func WithBestEffort(bestEffort bool) Option {
	return func(o *options) {
		o.bestEffort = bestEffort
	}
}
