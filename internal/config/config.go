package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/CherkashinEvgeny/goproxy/internal/logging"
)

const (
	StrategyStatic  = "static"
	StrategyDynamic = "dynamic"
	StrategyBoth    = "both"
)

const EnvPrefix = "GOPROXY"

// Config drives the demo command.
type Config struct {
	Data       string         `mapstructure:"data"`
	Delay      time.Duration  `mapstructure:"delay"`
	Strategy   string         `mapstructure:"strategy"`
	BestEffort bool           `mapstructure:"best_effort"`
	Metrics    bool           `mapstructure:"metrics"`
	Log        logging.Config `mapstructure:"log"`
}

func SetDefaults(v *viper.Viper) {
	logCfg := logging.DefaultConfig()
	v.SetDefault("data", "Test")
	v.SetDefault("delay", 100*time.Millisecond)
	v.SetDefault("strategy", StrategyBoth)
	v.SetDefault("best_effort", false)
	v.SetDefault("metrics", false)
	v.SetDefault("log.level", logCfg.Level)
	v.SetDefault("log.format", logCfg.Format)
}

// New returns a viper instance with defaults and GOPROXY_ environment
// variables bound. file is read when not empty.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config '%s'", file)
		}
	}
	return v, nil
}

func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyStatic, StrategyDynamic, StrategyBoth:
	default:
		return errors.Errorf("unknown strategy '%s'", c.Strategy)
	}
	if c.Delay < 0 {
		return errors.Errorf("negative delay %s", c.Delay)
	}
	return nil
}
