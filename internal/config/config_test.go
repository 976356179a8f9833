package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
	if cfg.ClinicTimezone != "UTC" {
		t.Errorf("ClinicTimezone = %q, want UTC", cfg.ClinicTimezone)
	}
	if !cfg.OpenWhenUnscheduled {
		t.Error("OpenWhenUnscheduled should default to true")
	}
	if !cfg.Migrate {
		t.Error("Migrate should default to true")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CITASMED_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("CITASMED_DATABASE_URL", "postgres://u:p@db:5432/clinic?sslmode=disable")
	t.Setenv("CITASMED_SCHEDULING_TIMEZONE", "America/Lima")
	t.Setenv("CITASMED_SCHEDULING_OPEN_WHEN_UNSCHEDULED", "false")
	t.Setenv("CITASMED_SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPHost != "127.0.0.1" || cfg.HTTPPort != 9090 {
		t.Errorf("addr = %s:%d, want 127.0.0.1:9090", cfg.HTTPHost, cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "postgres://u:p@db:5432/clinic?sslmode=disable" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.ClinicTimezone != "America/Lima" {
		t.Errorf("ClinicTimezone = %q, want America/Lima", cfg.ClinicTimezone)
	}
	if cfg.OpenWhenUnscheduled {
		t.Error("OpenWhenUnscheduled should be overridable to false")
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.ShutdownTimeout)
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("CITASMED_SHUTDOWN_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a malformed duration")
	}
}
