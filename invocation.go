package goproxy

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/CherkashinEvgeny/goproxy/internal/clock"
	"github.com/CherkashinEvgeny/goproxy/internal/metrics"
	"github.com/CherkashinEvgeny/goproxy/proxy"
)

// type check
var _ proxy.Interceptor = (*Invocation)(nil)

// Invocation is a proxy.Interceptor that logs and times every call before
// dispatching it to target.
type Invocation struct {
	target   any
	logger   *zap.Logger
	clock    clock.Clock
	recorder metrics.Recorder
}

func NewInvocation(target any, opts ...Option) *Invocation {
	o := newOptions(opts)
	return &Invocation{
		target:   target,
		logger:   o.logger,
		clock:    o.clock,
		recorder: o.recorder,
	}
}

func (i *Invocation) Target() any {
	return i.target
}

func (i *Invocation) Invoke(_ any, method *proxy.Method, args []any) (out []any, err error) {
	i.logger.Info("call method", zap.Stringer("method", method), zap.String("args", formatArgs(args)))
	start := i.clock.Now()
	defer func() {
		elapsed := i.clock.Now().Sub(start)
		recovered := recover()
		i.logger.Info("cost", zap.String("method", method.Name()), zap.Int64("ms", elapsed.Milliseconds()))
		i.recorder.Observe(metrics.Call{
			Strategy: metrics.StrategyDynamic,
			Method:   method.Name(),
			Elapsed:  elapsed,
			Err:      err,
			Panicked: recovered != nil,
		})
		if recovered != nil {
			panic(recovered)
		}
	}()
	return method.Call(i.target, args)
}

// formatArgs renders argument values, leaving out contexts.
func formatArgs(args []any) string {
	values := make([]string, 0, len(args))
	for _, arg := range args {
		if _, ok := arg.(context.Context); ok {
			continue
		}
		values = append(values, fmt.Sprintf("%v", arg))
	}
	return "[" + strings.Join(values, " ") + "]"
}
