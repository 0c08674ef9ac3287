package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return Default()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:   "valid default",
			mutate: func(c *Config) {},
		},
		{
			name: "negative sleep time",
			mutate: func(c *Config) {
				c.Worker.SleepTime = -1
			},
			wantField: "worker.sleep_time",
		},
		{
			name: "zero sleep with wait on idle",
			mutate: func(c *Config) {
				c.Worker.WaitOnIdle = true
				c.Worker.SleepTime = 0
			},
			wantField: "worker.sleep_time",
		},
		{
			name: "zero sleep without wait on idle is fine",
			mutate: func(c *Config) {
				c.Worker.SleepTime = 0
			},
		},
		{
			name: "zero retries with retry enabled",
			mutate: func(c *Config) {
				c.Worker.Retry = true
				c.Worker.MaxRetries = 0
			},
			wantField: "worker.max_retries",
		},
		{
			name: "zero retries with retry disabled is fine",
			mutate: func(c *Config) {
				c.Worker.MaxRetries = 0
			},
		},
		{
			name: "bad log level",
			mutate: func(c *Config) {
				c.Logging.Level = "loud"
			},
			wantField: "logging.level",
		},
		{
			name: "uppercase log level accepted",
			mutate: func(c *Config) {
				c.Logging.Level = "DEBUG"
			},
		},
		{
			name: "negative log size",
			mutate: func(c *Config) {
				c.Logging.MaxSizeMB = -5
			},
			wantField: "logging.max_size_mb",
		},
		{
			name: "negative backups",
			mutate: func(c *Config) {
				c.Logging.MaxBackups = -1
			},
			wantField: "logging.max_backups",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}

			if len(errs) == 0 {
				t.Fatalf("expected an error on %s", tt.wantField)
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on field %s, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "worker.sleep_time", Value: 0, Message: "must be greater than zero when wait_on_idle is set"},
		{Field: "worker.max_retries", Value: -2, Message: "must be greater than zero when retry is set"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "2 validation errors") {
		t.Errorf("multi-error message should count errors: %q", msg)
	}
	if !strings.Contains(msg, "worker.sleep_time") || !strings.Contains(msg, "worker.max_retries") {
		t.Errorf("message should name all fields: %q", msg)
	}

	single := ValidationErrors{errs[0]}
	if strings.Contains(single.Error(), "validation errors") {
		t.Errorf("single error should not use the multi-error header: %q", single.Error())
	}
}
