package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "PROCESSING_STREAM", "MATCHING_STREAM", "LAYOUT_DEADLINE", "WORKER_COUNT"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	if cfg.Port != "8091" {
		t.Errorf("Port = %q, want 8091", cfg.Port)
	}
	if cfg.ProcessingStream != "processing-queue" {
		t.Errorf("ProcessingStream = %q", cfg.ProcessingStream)
	}
	if cfg.MatchingStream != "matching-queue" {
		t.Errorf("MatchingStream = %q", cfg.MatchingStream)
	}
	if cfg.LayoutDeadline != 300*time.Second {
		t.Errorf("LayoutDeadline = %v, want 300s", cfg.LayoutDeadline)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want 4", cfg.WorkerCount)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("LAYOUT_POLL_INTERVAL", "500ms")
	t.Setenv("STORAGE_USE_SSL", "true")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("WorkerCount = %d, want 8", cfg.WorkerCount)
	}
	if cfg.LayoutPollInterval != 500*time.Millisecond {
		t.Errorf("LayoutPollInterval = %v, want 500ms", cfg.LayoutPollInterval)
	}
	if !cfg.StorageUseSSL {
		t.Error("StorageUseSSL should be true")
	}
}

func TestLoadIgnoresBadValues(t *testing.T) {
	t.Setenv("WORKER_COUNT", "not-a-number")
	t.Setenv("LAYOUT_DEADLINE", "soon")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want fallback 4", cfg.WorkerCount)
	}
	if cfg.LayoutDeadline != 300*time.Second {
		t.Errorf("LayoutDeadline = %v, want fallback 300s", cfg.LayoutDeadline)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseDSN:      "host=localhost",
		StorageAccessKey: "ak",
		StorageSecretKey: "sk",
		GeminiAPIKey:     "gk",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing dsn", func(c *Config) { c.DatabaseDSN = "" }},
		{"missing storage key", func(c *Config) { c.StorageSecretKey = "" }},
		{"missing gemini key", func(c *Config) { c.GeminiAPIKey = "" }},
		{"layout endpoint without key", func(c *Config) { c.LayoutEndpoint = "https://layout.example" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
