package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/toastd/internal/errors"
	"github.com/vango-dev/toastd/pkg/toast"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Address = %q", cfg.Server.Address)
	}
	if cfg.ShutdownTimeout() != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout())
	}
	if cfg.Relay.Channel != DefaultRelayChannel || cfg.Metrics.Path != "/metrics" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.FlushInterval() != time.Minute {
		t.Errorf("FlushInterval = %v", cfg.FlushInterval())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	tc := cfg.ToastConfig()
	if tc != toast.DefaultConfig() {
		t.Errorf("ToastConfig = %+v, want %+v", tc, toast.DefaultConfig())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"address": ":9000", "allowedOrigins": ["https://app.example.com"]},
		"toast": {"defaultDurationMs": 0, "exitDelayMs": 150, "maxVisible": 3},
		"archive": {"bucket": "toasts", "prefix": "prod"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path = %q", cfg.Path())
	}
	if cfg.Server.Address != ":9000" || len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("server = %+v", cfg.Server)
	}

	tc := cfg.ToastConfig()
	if tc.DefaultDuration != 0 {
		t.Errorf("explicit zero duration should be kept, got %v", tc.DefaultDuration)
	}
	if tc.ExitDelay != 150*time.Millisecond || tc.MaxVisible != 3 {
		t.Errorf("toast config = %+v", tc)
	}
	if cfg.Archive.BatchSize != 100 {
		t.Errorf("archive defaults not applied: %+v", cfg.Archive)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if got := errors.Code(err); got != "T001" {
		t.Errorf("explicit missing file: code = %q, want T001", got)
	}

	// Without an explicit path a missing toastd.json means defaults.
	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	os.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path() != "" || cfg.Server.Address != DefaultAddress {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	_, err := Load(writeConfig(t, `{"server":`))
	if got := errors.Code(err); got != "T002" {
		t.Errorf("code = %q, want T002", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"server": {"address": ":9000"}, "log": {"level": "warn"}}`)

	t.Setenv("TOASTD_SERVER_ADDRESS", ":7000")
	t.Setenv("TOASTD_SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TOASTD_TOAST_DEFAULT_DURATION_MS", "2500")
	t.Setenv("TOASTD_METRICS_ENABLED", "true")
	t.Setenv("TOASTD_RELAY_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TOASTD_ARCHIVE_FORCE_PATH_STYLE", "true")
	t.Setenv("TOASTD_ARCHIVE_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("TOASTD_ARCHIVE_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":7000" {
		t.Errorf("Address = %q, env should win over the file", cfg.Server.Address)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.ToastConfig().DefaultDuration != 2500*time.Millisecond {
		t.Errorf("DefaultDuration = %v", cfg.ToastConfig().DefaultDuration)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, unset env should keep the file value", cfg.Log.Level)
	}
	if !cfg.Metrics.Enabled || cfg.Relay.RedisURL == "" || !cfg.Archive.ForcePathStyle {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Archive.AccessKeyID != "AKIDEXAMPLE" || cfg.Archive.SecretAccessKey != "secret" {
		t.Errorf("archive credentials = %q/%q", cfg.Archive.AccessKeyID, cfg.Archive.SecretAccessKey)
	}
}

func TestEnvInvalid(t *testing.T) {
	t.Setenv("TOASTD_TOAST_MAX_VISIBLE", "many")
	_, err := Load(writeConfig(t, `{}`))
	if got := errors.Code(err); got != "T003" {
		t.Errorf("code = %q, want T003", got)
	}
}

func TestValidate(t *testing.T) {
	neg := -1
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.Server.Address = "" }},
		{"negative shutdown", func(c *Config) { c.Server.ShutdownTimeoutMs = -1 }},
		{"negative body", func(c *Config) { c.Server.MaxBodyBytes = -1 }},
		{"negative exit delay", func(c *Config) { c.Toast.ExitDelayMs = &neg }},
		{"negative max visible", func(c *Config) { c.Toast.MaxVisible = -1 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }},
		{"archive batch", func(c *Config) { c.Archive.Bucket = "b"; c.Archive.BatchSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if got := errors.Code(err); got != "T004" {
				t.Errorf("code = %q, want T004 (err %v)", got, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := New()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected JSON log %q", out)
	}
}
