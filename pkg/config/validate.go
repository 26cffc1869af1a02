package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidationError describes a single configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates all validation failures found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors. All failures are collected
// and returned together so operators fix everything in one round.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Server.ListenAddress == "" {
		errs = append(errs, ValidationError{"server.listen_address", "must not be empty"})
	} else if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		errs = append(errs, ValidationError{"server.listen_address",
			fmt.Sprintf("invalid address %q: must be host:port", cfg.Server.ListenAddress)})
	}
	if cfg.Server.ReadTimeout < 0 {
		errs = append(errs, ValidationError{"server.read_timeout", "must not be negative"})
	}
	if cfg.Server.WriteTimeout < 0 {
		errs = append(errs, ValidationError{"server.write_timeout", "must not be negative"})
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		errs = append(errs, ValidationError{"server.shutdown_timeout", "must be positive"})
	}

	if cfg.Rulebook.Path == "" {
		errs = append(errs, ValidationError{"rulebook.path", "must not be empty"})
	}
	if cfg.Rulebook.MaxFileSize <= 0 {
		errs = append(errs, ValidationError{"rulebook.max_file_size", "must be positive"})
	}
	if cfg.Rulebook.Watch && cfg.Rulebook.DebounceInterval <= 0 {
		errs = append(errs, ValidationError{"rulebook.debounce_interval",
			"must be positive when watch is enabled"})
	}

	if cfg.Taxonomy.Path == "" {
		errs = append(errs, ValidationError{"taxonomy.path", "must not be empty"})
	}

	switch cfg.Usage.Backend {
	case "memory":
	case "sqlite":
		if cfg.Usage.SQLitePath == "" {
			errs = append(errs, ValidationError{"usage.sqlite_path",
				"must not be empty when backend is sqlite"})
		}
	default:
		errs = append(errs, ValidationError{"usage.backend",
			fmt.Sprintf("unknown backend %q: must be memory or sqlite", cfg.Usage.Backend)})
	}
	if cfg.Usage.RetentionDays < 0 {
		errs = append(errs, ValidationError{"usage.retention_days", "must not be negative"})
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{"telemetry.logging.level",
			fmt.Sprintf("unknown level %q", cfg.Telemetry.Logging.Level)})
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, ValidationError{"telemetry.logging.format",
			fmt.Sprintf("unknown format %q", cfg.Telemetry.Logging.Format)})
	}
	if cfg.Telemetry.Metrics.Enabled && !strings.HasPrefix(cfg.Telemetry.Metrics.Path, "/") {
		errs = append(errs, ValidationError{"telemetry.metrics.path", "must start with /"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
