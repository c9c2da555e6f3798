package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Shortener.BaseURL != "http://localhost:9090" {
		t.Errorf("got base url %q, want http://localhost:9090", cfg.Shortener.BaseURL)
	}
	if cfg.Shortener.SlugLength != 6 {
		t.Errorf("got slug length %d, want 6", cfg.Shortener.SlugLength)
	}
	if cfg.Shortener.RedirectStatus != 302 {
		t.Errorf("got redirect status %d, want 302", cfg.Shortener.RedirectStatus)
	}
	if cfg.Shortener.DefaultValidity != 30*time.Minute {
		t.Errorf("got default validity %v, want 30m", cfg.Shortener.DefaultValidity)
	}
	if cfg.LogSink.Stack != "backend" {
		t.Errorf("got log stack %q, want backend", cfg.LogSink.Stack)
	}
	if cfg.LogSink.Timeout != 2*time.Second {
		t.Errorf("got log timeout %v, want 2s", cfg.LogSink.Timeout)
	}
	if cfg.Shortener.MaxValidity != 0 {
		t.Errorf("got max validity %v, want unbounded", cfg.Shortener.MaxValidity)
	}
	if cfg.Kafka.Enabled {
		t.Error("kafka should be disabled by default")
	}
}

func TestLoad_TrimsBaseURLSlash(t *testing.T) {
	t.Setenv("SHORTENER_BASE_URL", "https://sho.rt/")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Shortener.BaseURL != "https://sho.rt" {
		t.Errorf("got %q, want https://sho.rt", cfg.Shortener.BaseURL)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"redirect status", "REDIRECT_STATUS", "307"},
		{"slug too short", "SLUG_LENGTH", "2"},
		{"slug too long", "SLUG_LENGTH", "64"},
		{"non-positive validity", "DEFAULT_VALIDITY_MINUTES", "0"},
		{"max below default", "MAX_VALIDITY_MINUTES", "10"},
		{"zero in-flight", "LOG_MAX_IN_FLIGHT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_KafkaRequiresBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")

	if _, err := Load(); err == nil {
		t.Error("expected error when kafka is enabled without brokers")
	}
}

func TestLoad_MaxValidity(t *testing.T) {
	t.Setenv("MAX_VALIDITY_MINUTES", "1440")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Shortener.MaxValidity != 24*time.Hour {
		t.Errorf("got max validity %v, want 24h", cfg.Shortener.MaxValidity)
	}
}
