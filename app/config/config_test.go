package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, 1500*time.Millisecond, cfg.GenerateDelay)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "todo-ai", cfg.Tracing.ServiceName)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TODO_AI_SERVER_PORT", "9090")
	t.Setenv("TODO_AI_GENERATE_DELAY", "0s")
	t.Setenv("TODO_AI_LOG_FORMAT", "text")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Zero(t, cfg.GenerateDelay)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo-ai.yaml")
	content := "server:\n  port: 7000\ngenerate:\n  delay: 250ms\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.GenerateDelay)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port out of range", map[string]string{"TODO_AI_SERVER_PORT": "70000"}},
		{"negative delay", map[string]string{"TODO_AI_GENERATE_DELAY": "-1s"}},
		{"unknown log level", map[string]string{"TODO_AI_LOG_LEVEL": "verbose"}},
		{"unknown log format", map[string]string{"TODO_AI_LOG_FORMAT": "xml"}},
		{"sample rate above one", map[string]string{"TODO_AI_TRACING_SAMPLE_RATE": "1.5"}},
		{"tracing without endpoint", map[string]string{"TODO_AI_TRACING_ENABLED": "true", "TODO_AI_TRACING_ENDPOINT": " "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(viper.New(), "")
			assert.Error(t, err)
		})
	}
}
