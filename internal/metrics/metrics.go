package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	StrategyStatic  = "static"
	StrategyDynamic = "dynamic"
)

// Call describes one timed call.
type Call struct {
	Strategy string
	Method   string
	Elapsed  time.Duration
	Err      error
	// Panicked is set when the call unwound with a panic instead of returning.
	Panicked bool
}

// Recorder receives an observation for every timed call.
type Recorder interface {
	Observe(call Call)
}

// Nop discards observations.
var Nop Recorder = nop{}

type nop struct{}

func (nop) Observe(Call) {}

// Prometheus exports call counts and latencies.
type Prometheus struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goproxy",
				Name:      "calls_total",
				Help:      "Total number of proxied calls",
			},
			[]string{"strategy", "method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "goproxy",
				Name:      "call_duration_seconds",
				Help:      "Duration of proxied calls in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"strategy", "method"},
		),
	}
	for _, c := range []prometheus.Collector{p.calls, p.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register collector")
		}
	}
	return p, nil
}

func (p *Prometheus) Observe(call Call) {
	p.calls.WithLabelValues(call.Strategy, call.Method, outcome(call)).Inc()
	p.duration.WithLabelValues(call.Strategy, call.Method).Observe(call.Elapsed.Seconds())
}

func outcome(call Call) string {
	switch {
	case call.Panicked:
		return "panic"
	case call.Err != nil:
		return "error"
	default:
		return "ok"
	}
}
