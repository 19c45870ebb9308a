package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"todo-ai/app/observability"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. TODO_AI_SERVER_PORT.
const EnvPrefix = "TODO_AI"

// Config holds the runtime settings of the service.
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	GenerateDelay time.Duration

	LogLevel  string
	LogFormat string

	Tracing observability.TracingConfig
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SetDefaults registers default values and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("generate.delay", 1500*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.sample_rate", 1.0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from v, optionally merging the file at path first.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Host:            v.GetString("server.host"),
		Port:            v.GetInt("server.port"),
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		IdleTimeout:     v.GetDuration("server.idle_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		GenerateDelay:   v.GetDuration("generate.delay"),
		LogLevel:        v.GetString("log.level"),
		LogFormat:       v.GetString("log.format"),
		Tracing: observability.TracingConfig{
			Enabled:     v.GetBool("tracing.enabled"),
			Endpoint:    v.GetString("tracing.endpoint"),
			SampleRate:  v.GetFloat64("tracing.sample_rate"),
			ServiceName: "todo-ai",
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Port)
	}
	if c.GenerateDelay < 0 {
		return fmt.Errorf("generate.delay must not be negative, got %s", c.GenerateDelay)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if _, err := observability.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.LogFormat)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be within [0, 1], got %g", c.Tracing.SampleRate)
	}
	if c.Tracing.Enabled && strings.TrimSpace(c.Tracing.Endpoint) == "" {
		return errors.New("tracing.endpoint must be set when tracing is enabled")
	}
	return nil
}
