package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/CherkashinEvgeny/goproxy"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	if err = run(context.Background(), logger); err != nil {
		logger.Error("example failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	var m Map = NewMapProxy(goproxy.NewInvocation(&LocalMap{}, goproxy.WithLogger(logger)))
	err := m.Set(ctx, "hehe", nil)
	if err != nil {
		return err
	}
	_, err = m.Get(ctx, "hehe")
	if err != nil {
		return err
	}
	return m.Delete(ctx, "hehe")
}
