package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected log defaults: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
	if !cfg.Review {
		t.Fatal("expected review prompt on by default")
	}
	r := cfg.Retry()
	if r.MaxAttempts != 3 || r.InitialWait != 50*time.Millisecond || r.MaxWait != time.Second {
		t.Fatalf("unexpected retry config: %+v", r)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COUNTUP_DB", "/tmp/kids.db")
	t.Setenv("COUNTUP_LOG_LEVEL", "debug")
	t.Setenv("COUNTUP_LOG_FORMAT", "json")
	t.Setenv("COUNTUP_RETRY_ATTEMPTS", "5")
	t.Setenv("COUNTUP_RETRY_MAX_WAIT", "3s")
	t.Setenv("COUNTUP_REVIEW", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/kids.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected log settings: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Retry().MaxAttempts != 5 || cfg.RetryMaxWait != 3*time.Second {
		t.Fatalf("unexpected retry settings: %+v", cfg.Retry())
	}
	if cfg.Review {
		t.Fatal("expected review prompt off")
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("COUNTUP_RETRY_ATTEMPTS", "many")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := map[string][2]string{
		"level":    {"COUNTUP_LOG_LEVEL", "loud"},
		"format":   {"COUNTUP_LOG_FORMAT", "xml"},
		"attempts": {"COUNTUP_RETRY_ATTEMPTS", "0"},
		"max wait": {"COUNTUP_RETRY_MAX_WAIT", "10ms"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), "invalid config") {
				t.Fatalf("expected invalid config, got %v", err)
			}
		})
	}
}
