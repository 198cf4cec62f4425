package commands

import (
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/CherkashinEvgeny/goproxy"
	"github.com/CherkashinEvgeny/goproxy/internal/config"
	"github.com/CherkashinEvgeny/goproxy/internal/demo"
	"github.com/CherkashinEvgeny/goproxy/internal/logging"
	"github.com/CherkashinEvgeny/goproxy/internal/metrics"
)

func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Handle data through the static wrapper and the dynamic proxy",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}
	flags := cmd.Flags()
	flags.String("data", "Test", "data to handle")
	flags.Duration("delay", goproxy.DefaultDelay, "simulated work duration")
	flags.String("strategy", config.StrategyBoth, "static, dynamic or both")
	flags.Bool("best-effort", false, "swallow interruptions of the simulated work")
	flags.Bool("metrics", false, "print collected metrics on exit")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", logging.FormatConsole, "log format: console or json")
	return cmd
}

var flagKeys = map[string]string{
	"data":        "data",
	"delay":       "delay",
	"strategy":    "strategy",
	"best-effort": "best_effort",
	"metrics":     "metrics",
	"log-level":   "log.level",
	"log-format":  "log.format",
}

func runDemo(cmd *cobra.Command, _ []string) error {
	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	if err = bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	reg := prometheus.NewRegistry()
	recorder := metrics.Nop
	if cfg.Metrics {
		p, err := metrics.NewPrometheus(reg)
		if err != nil {
			return err
		}
		recorder = p
	}

	err = demo.NewRunner(cfg, logger, recorder).Run(cmd.Context())
	if cfg.Metrics {
		if dumpErr := dumpMetrics(cmd.OutOrStdout(), reg); dumpErr != nil && err == nil {
			err = dumpErr
		}
	}
	return err
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return errors.Wrapf(err, "bind flag '%s'", flag)
		}
	}
	return nil
}

func dumpMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, family := range families {
		if _, err = expfmt.MetricFamilyToText(w, family); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}
