// Package demo runs the static and dynamic proxy scenarios against a
// DelayHandler.
package demo

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/CherkashinEvgeny/goproxy"
	"github.com/CherkashinEvgeny/goproxy/internal/config"
	"github.com/CherkashinEvgeny/goproxy/internal/metrics"
	"github.com/CherkashinEvgeny/goproxy/proxy"
)

// Identity holds the answers of the proxy identity queries.
type Identity struct {
	// IsProxy reports whether the proxy instance itself is recognized.
	IsProxy bool
	// IsProxyType reports whether the type registered for Handler is a proxy type.
	IsProxyType        bool
	InterceptorMatches bool
}

type Runner struct {
	cfg      config.Config
	logger   *zap.Logger
	recorder metrics.Recorder
	registry *proxy.Registry
}

func NewRunner(cfg config.Config, logger *zap.Logger, recorder metrics.Recorder) *Runner {
	if recorder == nil {
		recorder = metrics.Nop
	}
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		registry: proxy.Default,
	}
}

// Run executes the scenarios selected by the configured strategy.
func (r *Runner) Run(ctx context.Context) error {
	switch r.cfg.Strategy {
	case config.StrategyStatic:
		return r.Static(ctx)
	case config.StrategyDynamic:
		_, err := r.Dynamic(ctx)
		return err
	case config.StrategyBoth:
		if err := r.Static(ctx); err != nil {
			return err
		}
		_, err := r.Dynamic(ctx)
		return err
	default:
		return errors.Errorf("unknown strategy '%s'", r.cfg.Strategy)
	}
}

// Static handles the configured data through a TimingHandler.
func (r *Runner) Static(ctx context.Context) error {
	h := goproxy.NewTimingHandler(r.target(),
		goproxy.WithLogger(r.logger.Named("static")),
		goproxy.WithRecorder(r.recorder),
	)
	return h.Handle(ctx, r.cfg.Data)
}

// Dynamic handles the configured data through a HandlerProxy bound to an
// Invocation and then queries the proxy identity.
func (r *Runner) Dynamic(ctx context.Context) (Identity, error) {
	logger := r.logger.Named("dynamic")
	inv := goproxy.NewInvocation(r.target(),
		goproxy.WithLogger(logger),
		goproxy.WithRecorder(r.recorder),
	)
	p, err := proxy.New[goproxy.Handler](r.registry, inv)
	if err != nil {
		return Identity{}, err
	}

	logger.Info("invoke method")
	if err = p.Handle(ctx, r.cfg.Data); err != nil {
		return Identity{}, err
	}

	proxyType, err := r.registry.ProxyType(proxy.InterfaceOf[goproxy.Handler]())
	if err != nil {
		return Identity{}, err
	}
	interceptor, err := r.registry.InterceptorOf(p)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{
		IsProxy:            r.registry.IsProxy(p),
		IsProxyType:        r.registry.IsProxyType(proxyType),
		InterceptorMatches: interceptor == proxy.Interceptor(inv),
	}
	logger.Info("is proxy", zap.Bool("value", id.IsProxy))
	logger.Info("is proxy type", zap.Bool("value", id.IsProxyType), zap.Stringer("type", proxyType))
	logger.Info("interceptor matches", zap.Bool("value", id.InterceptorMatches))
	return id, nil
}

func (r *Runner) target() goproxy.Handler {
	return goproxy.NewDelayHandler(
		goproxy.WithDelay(r.cfg.Delay),
		goproxy.WithBestEffort(r.cfg.BestEffort),
		goproxy.WithLogger(r.logger.Named("target")),
	)
}
