package config

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vango-dev/toastd/internal/errors"
	"github.com/vango-dev/toastd/pkg/toast"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "toastd.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TOASTD_"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"

	// DefaultShutdownTimeoutMs bounds graceful shutdown.
	DefaultShutdownTimeoutMs = 10000

	// DefaultMaxBodyBytes limits API request bodies.
	DefaultMaxBodyBytes = 64 << 10

	// DefaultRelayChannel is the Redis channel the relay subscribes to.
	DefaultRelayChannel = "toastd:notify"
)

// Config represents the complete toastd.json configuration.
type Config struct {
	// Server contains HTTP and WebSocket settings.
	Server ServerConfig `json:"server" envPrefix:"SERVER_"`

	// Toast contains notification timing settings.
	Toast ToastConfig `json:"toast" envPrefix:"TOAST_"`

	// Log contains logger settings.
	Log LogConfig `json:"log" envPrefix:"LOG_"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics" envPrefix:"METRICS_"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing" envPrefix:"TRACING_"`

	// Archive contains S3 archive settings. Disabled when Bucket is empty.
	Archive ArchiveConfig `json:"archive" envPrefix:"ARCHIVE_"`

	// Relay contains Redis relay settings. Disabled when RedisURL is empty.
	Relay RelayConfig `json:"relay" envPrefix:"RELAY_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Address is the listen address.
	Address string `json:"address,omitempty" env:"ADDRESS"`

	// ShutdownTimeoutMs bounds graceful shutdown.
	ShutdownTimeoutMs int `json:"shutdownTimeoutMs,omitempty" env:"SHUTDOWN_TIMEOUT_MS"`

	// AllowedOrigins lists extra origins allowed to open the WebSocket.
	// Same-origin requests are always allowed.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" env:"ALLOWED_ORIGINS" envSeparator:","`

	// MaxBodyBytes limits API request bodies.
	MaxBodyBytes int64 `json:"maxBodyBytes,omitempty" env:"MAX_BODY_BYTES"`
}

// ToastConfig contains notification timing settings.
type ToastConfig struct {
	// DefaultDurationMs applies when a request sets no duration.
	// Nil means 4000; zero or negative makes toasts persistent by default.
	DefaultDurationMs *int `json:"defaultDurationMs,omitempty" env:"DEFAULT_DURATION_MS"`

	// ExitDelayMs is the slide-out time before removal. Nil means 300.
	ExitDelayMs *int `json:"exitDelayMs,omitempty" env:"EXIT_DELAY_MS"`

	// MaxVisible caps visible toasts; zero is unbounded.
	MaxVisible int `json:"maxVisible,omitempty" env:"MAX_VISIBLE"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" env:"ENABLED"`
	Namespace string `json:"namespace,omitempty" env:"NAMESPACE"`
	Path      string `json:"path,omitempty" env:"PATH"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" env:"ENABLED"`
	TracerName string `json:"tracerName,omitempty" env:"TRACER_NAME"`
}

// ArchiveConfig contains S3 archive settings.
type ArchiveConfig struct {
	Bucket          string `json:"bucket,omitempty" env:"BUCKET"`
	Prefix          string `json:"prefix,omitempty" env:"PREFIX"`
	Region          string `json:"region,omitempty" env:"REGION"`
	Endpoint        string `json:"endpoint,omitempty" env:"ENDPOINT"`
	ForcePathStyle  bool   `json:"forcePathStyle,omitempty" env:"FORCE_PATH_STYLE"`
	AccessKeyID     string `json:"accessKeyId,omitempty" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `json:"secretAccessKey,omitempty" env:"SECRET_ACCESS_KEY"`
	BatchSize       int    `json:"batchSize,omitempty" env:"BATCH_SIZE"`
	FlushIntervalMs int    `json:"flushIntervalMs,omitempty" env:"FLUSH_INTERVAL_MS"`
	QueueSize       int    `json:"queueSize,omitempty" env:"QUEUE_SIZE"`
}

// RelayConfig contains Redis relay settings.
type RelayConfig struct {
	RedisURL string `json:"redisUrl,omitempty" env:"REDIS_URL"`
	Channel  string `json:"channel,omitempty" env:"CHANNEL"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills every unset field.
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ShutdownTimeoutMs == 0 {
		c.Server.ShutdownTimeoutMs = DefaultShutdownTimeoutMs
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Toast.DefaultDurationMs == nil {
		ms := int(toast.DefaultDuration / time.Millisecond)
		c.Toast.DefaultDurationMs = &ms
	}
	if c.Toast.ExitDelayMs == nil {
		ms := int(toast.DefaultExitDelay / time.Millisecond)
		c.Toast.ExitDelayMs = &ms
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "toastd"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "toastd"
	}
	if c.Archive.BatchSize == 0 {
		c.Archive.BatchSize = 100
	}
	if c.Archive.FlushIntervalMs == 0 {
		c.Archive.FlushIntervalMs = 60000
	}
	if c.Archive.QueueSize == 0 {
		c.Archive.QueueSize = 1024
	}
	if c.Relay.Channel == "" {
		c.Relay.Channel = DefaultRelayChannel
	}
}

var dotenvOnce sync.Once

// Load reads path (or toastd.json in the working directory when path is
// empty), applies environment overrides and validates the result. A missing
// file is not an error unless path was given explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	cfg, err := LoadFile(path)
	switch {
	case err == nil:
	case !explicit && stderrors.Is(err, fs.ErrNotExist):
		cfg = &Config{}
	default:
		return nil, err
	}

	dotenvOnce.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from the specified file path without
// environment overrides or defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("T001").
			WithDetail("Could not read " + path).
			Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("T002").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + path + " is valid JSON")
	}

	cfg.configPath = path
	return cfg, nil
}

// ApplyEnv overrides fields from TOASTD_* environment variables.
// Variables that are not set leave the field untouched.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.New("T003").Wrap(err)
	}
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("T004").
			WithDetail("server.address must not be empty")
	}
	if c.Server.ShutdownTimeoutMs < 0 {
		return errors.New("T004").
			WithDetail("server.shutdownTimeoutMs must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New("T004").
			WithDetail("server.maxBodyBytes must not be negative")
	}
	if c.Toast.ExitDelayMs != nil && *c.Toast.ExitDelayMs < 0 {
		return errors.New("T004").
			WithDetail("toast.exitDelayMs must not be negative").
			WithSuggestion(`Set "exitDelayMs": 300 in ` + ConfigFileName)
	}
	if c.Toast.MaxVisible < 0 {
		return errors.New("T004").
			WithDetail("toast.maxVisible must not be negative")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("T004").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("T004").
			WithDetailf("log.format %q is not one of text, json", c.Log.Format)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("T004").
			WithDetail("metrics.path must start with /")
	}
	if c.Archive.Bucket != "" {
		if c.Archive.BatchSize <= 0 || c.Archive.FlushIntervalMs <= 0 || c.Archive.QueueSize <= 0 {
			return errors.New("T004").
				WithDetail("archive.batchSize, archive.flushIntervalMs and archive.queueSize must be positive")
		}
	}
	return nil
}

// ToastConfig converts the toast section to a toast.Config.
func (c *Config) ToastConfig() toast.Config {
	cfg := toast.DefaultConfig()
	if c.Toast.DefaultDurationMs != nil {
		cfg.DefaultDuration = time.Duration(*c.Toast.DefaultDurationMs) * time.Millisecond
	}
	if c.Toast.ExitDelayMs != nil {
		cfg.ExitDelay = time.Duration(*c.Toast.ExitDelayMs) * time.Millisecond
	}
	cfg.MaxVisible = c.Toast.MaxVisible
	return cfg
}

// ShutdownTimeout returns the graceful shutdown bound.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutMs) * time.Millisecond
}

// FlushInterval returns the archive flush interval.
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.Archive.FlushIntervalMs) * time.Millisecond
}

// NewLogger builds the slog logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
