// Package config holds taskfarmer's layered configuration. Values come
// from, in increasing precedence: built-in defaults, the config file
// ($XDG_CONFIG_HOME/taskfarmer/config.yaml), TASKFARMER_* environment
// variables, and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete taskfarmer configuration.
type Config struct {
	Queue   QueueConfig   `mapstructure:"queue"`
	Worker  WorkerConfig  `mapstructure:"worker"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// QueueConfig locates the shared job file.
type QueueConfig struct {
	// File is the path to the job file. Required for run/add/status/watch.
	File string `mapstructure:"file"`
}

// WorkerConfig controls the worker loop.
type WorkerConfig struct {
	// Verbose prints one status line per claimed task, failed attempt,
	// idle wait, and termination.
	Verbose bool `mapstructure:"verbose"`
	// WaitOnIdle keeps the worker alive when the job file is empty,
	// re-checking after each sleep. Off by default: workers exit when
	// the farm drains.
	WaitOnIdle bool `mapstructure:"wait_on_idle"`
	// SleepTime is the idle-wait duration in seconds (default: 300).
	// Must be positive when WaitOnIdle is set.
	SleepTime int `mapstructure:"sleep_time"`
	// Retry re-runs failed tasks on the same worker.
	Retry bool `mapstructure:"retry"`
	// MaxRetries is the attempt budget per task when Retry is set
	// (default: 10). Forced to a single attempt when Retry is off.
	MaxRetries int `mapstructure:"max_retries"`
}

// SleepDuration returns SleepTime as a time.Duration.
func (c *WorkerConfig) SleepDuration() time.Duration {
	return time.Duration(c.SleepTime) * time.Second
}

// LoggingConfig controls the structured debug log. This is separate from
// the worker's verbose stdout lines.
type LoggingConfig struct {
	// File is the debug log path. Empty disables file logging; with a
	// log level set, entries then go to stderr.
	File string `mapstructure:"file"`
	// Level is the log level: "debug", "info", "warn", "error"
	// (default: "info").
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before
	// rotation (default: 10). Zero disables rotation.
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 3).
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns the built-in configuration, matching the original
// taskfarmer defaults (300 s idle sleep, 10 retries).
func Default() *Config {
	return &Config{
		Queue: QueueConfig{},
		Worker: WorkerConfig{
			Verbose:    false,
			WaitOnIdle: false,
			SleepTime:  300,
			Retry:      false,
			MaxRetries: 10,
		},
		Logging: LoggingConfig{
			File:       "",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers the built-in defaults with viper so they apply
// even without a config file.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("queue.file", defaults.Queue.File)

	viper.SetDefault("worker.verbose", defaults.Worker.Verbose)
	viper.SetDefault("worker.wait_on_idle", defaults.Worker.WaitOnIdle)
	viper.SetDefault("worker.sleep_time", defaults.Worker.SleepTime)
	viper.SetDefault("worker.retry", defaults.Worker.Retry)
	viper.SetDefault("worker.max_retries", defaults.Worker.MaxRetries)

	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and
// validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if
// loading fails.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskfarmer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskfarmer"
	}
	return filepath.Join(home, ".config", "taskfarmer")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
