package main

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"REFRESH_RATE_MS", "AUTO_REFRESH", "API_KEY", "GEMINI_API_KEY", "MQTT_HOST", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := loadConfig()

	if cfg.RefreshInterval != 5*time.Second || !cfg.AutoRefresh || cfg.HistoryLimit != 50 {
		t.Fatalf("unexpected refresh defaults %+v", cfg)
	}
	if cfg.APIKey != "" || cfg.MQTTHost != "" {
		t.Fatalf("credentials should default to empty")
	}
	if cfg.AIModel != "gemini-2.5-flash" || cfg.ControlTopic != "aquastep/control" {
		t.Fatalf("unexpected defaults model=%s control=%s", cfg.AIModel, cfg.ControlTopic)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("origins=%v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("REFRESH_RATE_MS", "250")
	t.Setenv("AUTO_REFRESH", "false")
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "fallback-key")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("HISTORY_LIMIT", "abc")

	cfg := loadConfig()
	if cfg.RefreshInterval != 250*time.Millisecond || cfg.AutoRefresh {
		t.Fatalf("refresh overrides ignored %+v", cfg)
	}
	if cfg.APIKey != "fallback-key" {
		t.Fatalf("api key=%q", cfg.APIKey)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("origins=%v", cfg.AllowedOrigins)
	}
	if cfg.HistoryLimit != 50 {
		t.Fatalf("invalid int should keep default, got %d", cfg.HistoryLimit)
	}
}

func TestEnvDurationRejectsNonPositive(t *testing.T) {
	t.Setenv("ASSESS_TIMEOUT_MS", "0")
	if got := envDuration("ASSESS_TIMEOUT_MS", time.Second); got != time.Second {
		t.Fatalf("got %s", got)
	}
}
