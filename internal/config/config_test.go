package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Worker.SleepTime != 300 {
		t.Errorf("SleepTime = %d, want 300", cfg.Worker.SleepTime)
	}
	if cfg.Worker.MaxRetries != 10 {
		t.Errorf("MaxRetries = %d, want 10", cfg.Worker.MaxRetries)
	}
	if cfg.Worker.Verbose || cfg.Worker.WaitOnIdle || cfg.Worker.Retry {
		t.Errorf("boolean options should default off: %+v", cfg.Worker)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("default config should validate cleanly, got %v", errs)
	}
}

func TestSleepDuration(t *testing.T) {
	c := WorkerConfig{SleepTime: 42}
	if got := c.SleepDuration(); got != 42*time.Second {
		t.Errorf("SleepDuration() = %v, want 42s", got)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != "/tmp/xdg/taskfarmer" {
		t.Errorf("ConfigDir() = %q, want /tmp/xdg/taskfarmer", got)
	}
}
