package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if !cfg.MetricsEnabled {
		t.Error("expected metrics enabled by default")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_HOSPITAL", "General Hospital")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.DefaultHospital != "General Hospital" {
		t.Errorf("expected DEFAULT_HOSPITAL to be set, got %q", cfg.DefaultHospital)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 CORS origins, got %v", cfg.CORSOrigins)
	}
	if cfg.MetricsEnabled {
		t.Error("expected metrics disabled")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_Level(t *testing.T) {
	if lvl := (&Config{LogLevel: "DEBUG"}).Level(); lvl != zerolog.DebugLevel {
		t.Errorf("expected debug, got %s", lvl)
	}
	if lvl := (&Config{LogLevel: "nonsense"}).Level(); lvl != zerolog.InfoLevel {
		t.Errorf("expected info fallback, got %s", lvl)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Port: "8000", Env: "production", LogLevel: "warn", ShutdownTimeout: time.Second}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown env", func(c *Config) { c.Env = "staging" }, true},
		{"non-numeric port", func(c *Config) { c.Port = "http" }, true},
		{"port out of range", func(c *Config) { c.Port = "70000" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
