package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != "8503" {
		t.Fatalf("expected default port 8503, got %s", cfg.Server.Port)
	}
	if cfg.Monitor.PollInterval != 300*time.Second {
		t.Fatalf("expected default poll interval 300s, got %v", cfg.Monitor.PollInterval)
	}
	if cfg.Monitor.AlertThreshold != 90 {
		t.Fatalf("expected default threshold 90, got %v", cfg.Monitor.AlertThreshold)
	}
	if cfg.Webhook.URL != "" {
		t.Fatalf("expected webhook disabled by default, got %q", cfg.Webhook.URL)
	}
	if cfg.Source.Kind != "gopsutil" {
		t.Fatalf("expected default source gopsutil, got %s", cfg.Source.Kind)
	}
	if cfg.Monitor.RetentionMaxAge != 168*time.Hour {
		t.Fatalf("expected default retention 168h, got %v", cfg.Monitor.RetentionMaxAge)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DUF_PORT", "9000")
	t.Setenv("DUF_POLL_INTERVAL", "30s")
	t.Setenv("DUF_ALERT_THRESHOLD", "75.5")
	t.Setenv("DUF_WEBHOOK_URL", "https://hooks.example.com/disk")
	t.Setenv("DUF_SOURCE", "duf")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Fatalf("expected port 9000, got %s", cfg.Server.Port)
	}
	if cfg.Monitor.PollInterval != 30*time.Second {
		t.Fatalf("expected poll interval 30s, got %v", cfg.Monitor.PollInterval)
	}
	if cfg.Monitor.AlertThreshold != 75.5 {
		t.Fatalf("expected threshold 75.5, got %v", cfg.Monitor.AlertThreshold)
	}
	if cfg.Webhook.URL != "https://hooks.example.com/disk" {
		t.Fatalf("unexpected webhook url: %s", cfg.Webhook.URL)
	}
	if cfg.Source.Kind != "duf" {
		t.Fatalf("expected source duf, got %s", cfg.Source.Kind)
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	t.Setenv("DUF_ALERT_THRESHOLD", "150")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for threshold above 100")
	}
}

func TestLoadRejectsNonPositivePollInterval(t *testing.T) {
	t.Setenv("DUF_POLL_INTERVAL", "0s")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero poll interval")
	}
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.local",
		Port:     "5433",
		User:     "duf",
		Password: "secret",
		Database: "duf_monitor",
	}

	dsn := db.DSN()
	expected := "host=db.local port=5433 user=duf password=secret dbname=duf_monitor sslmode=disable"
	if dsn != expected {
		t.Fatalf("unexpected DSN: %s", dsn)
	}
}
