package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHost           = "127.0.0.1"
	DefaultHTTPPort       = 8080
	DefaultLogLevel       = "info"
	DefaultStreamInterval = 5 * time.Second
)

// Config holds the configuration parsed from the `server:` section of
// config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server settings.
type ServerConfig struct {
	// Host is the interface the HTTP listener binds to (default 127.0.0.1).
	Host string `yaml:"host"`

	// HTTPPort is the port the REST API, WebSocket stream and metrics
	// endpoint listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// LogLevel is one of: debug | info | warn | error (default info).
	// Re-applied on config reload without a restart.
	LogLevel string `yaml:"log_level"`

	// Stream controls the WebSocket broadcast loop.
	Stream StreamConfig `yaml:"stream"`

	// Webhooks lists HTTP targets notified on every todo change.
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// StreamConfig controls the WebSocket todo stream.
type StreamConfig struct {
	// Interval is how often the hub rebroadcasts the todo list to connected
	// clients, independent of mutations (default 5s).
	Interval time.Duration `yaml:"interval"`
}

// UnmarshalYAML parses the interval from a Go duration string ("5s",
// "250ms"). yaml.v3 has no native time.Duration support. An absent or empty
// interval keeps the previously set (default) value.
func (s *StreamConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Interval string `yaml:"interval"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Interval == "" {
		return nil
	}
	d, err := time.ParseDuration(raw.Interval)
	if err != nil {
		return fmt.Errorf("stream.interval %q: %w", raw.Interval, err)
	}
	s.Interval = d
	return nil
}

// WebhookConfig defines one change-notification target.
type WebhookConfig struct {
	// Name identifies the target in logs.
	Name string `yaml:"name"`

	// URLEnv is the name of the environment variable that holds the target
	// URL. The URL itself never lives in the config file.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Addr returns the host:port the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.HTTPPort)
}

// SlogLevel maps the configured log level string to a slog.Level.
func (s ServerConfig) SlogLevel() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     DefaultHost,
			HTTPPort: DefaultHTTPPort,
			LogLevel: DefaultLogLevel,
			Stream: StreamConfig{
				Interval: DefaultStreamInterval,
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", cfg.Server.LogLevel)
	}
	if cfg.Server.Stream.Interval <= 0 {
		return fmt.Errorf("server.stream.interval must be positive")
	}
	for i, wh := range cfg.Server.Webhooks {
		if wh.URLEnv == "" {
			return fmt.Errorf("server.webhooks[%d]: url_env is required", i)
		}
	}
	return nil
}
