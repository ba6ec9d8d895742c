package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("VIDBRIEF_BACKEND_URL", "http://backend:5000/")
	t.Setenv("VIDBRIEF_HTTP_TIMEOUT", "45s")
	t.Setenv("VIDBRIEF_STATE_DIR", "/tmp/vidbrief-test")
	t.Setenv("VIDBRIEF_STORE", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("VIDBRIEF_S3_PATH_STYLE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.BackendURL != "http://backend:5000" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.BackendURL)
	}
	if cfg.HTTPTimeout != 45*time.Second {
		t.Errorf("expected 45s, got %s", cfg.HTTPTimeout)
	}
	if cfg.LogDir != "/tmp/vidbrief-test/logs" {
		t.Errorf("expected log dir under state dir, got %s", cfg.LogDir)
	}
	if cfg.Store.Kind != "redis" || cfg.Store.RedisDB != 3 {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if !cfg.S3.UsePathStyle {
		t.Errorf("expected path style enabled")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VIDBRIEF_BACKEND_URL", "")
	t.Setenv("VIDBRIEF_STATE_DIR", "/tmp/vidbrief-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BackendURL != DefaultBackendURL {
		t.Errorf("expected default backend, got %s", cfg.BackendURL)
	}
	if cfg.HTTPTimeout != 0 {
		t.Errorf("expected no client timeout by default, got %s", cfg.HTTPTimeout)
	}
	if cfg.Store.Kind != "file" || cfg.Player != "link" {
		t.Errorf("unexpected defaults: store=%s player=%s", cfg.Store.Kind, cfg.Player)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			BackendURL: "http://localhost:5000",
			StateDir:   "/tmp/x",
			Store:      StoreConfig{Kind: "file"},
			Player:     "link",
			RateLimit:  RateLimitConfig{RequestsPerMinute: 1, Burst: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing backend", func(c *Config) { c.BackendURL = "" }, true},
		{"bad scheme", func(c *Config) { c.BackendURL = "ftp://x" }, true},
		{"unknown store", func(c *Config) { c.Store.Kind = "sqlite" }, true},
		{"unknown player", func(c *Config) { c.Player = "vlc" }, true},
		{"bad theme", func(c *Config) { c.Theme = "blue" }, true},
		{"light theme", func(c *Config) { c.Theme = "light" }, false},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }, true},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
