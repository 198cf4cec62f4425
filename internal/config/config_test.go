package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "Test", cfg.Data)
	assert.Equal(t, 100*time.Millisecond, cfg.Delay)
	assert.Equal(t, StrategyBoth, cfg.Strategy)
	assert.False(t, cfg.BestEffort)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFileAndEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "goproxy.yaml")
	content := "delay: 250ms\nstrategy: dynamic\nlog:\n  format: json\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	t.Setenv("GOPROXY_DATA", "from env")
	t.Setenv("GOPROXY_LOG_LEVEL", "debug")

	v, err := New(file)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.Equal(t, StrategyDynamic, cfg.Strategy)
	assert.Equal(t, "from env", cfg.Data)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "static", cfg: Config{Strategy: StrategyStatic}},
		{name: "unknown strategy", cfg: Config{Strategy: "cglib"}, wantErr: true},
		{name: "negative delay", cfg: Config{Strategy: StrategyBoth, Delay: -time.Second}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
