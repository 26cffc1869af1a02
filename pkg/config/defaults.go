package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Rulebook defaults
	DefaultRulebookPath     = "./rulebook.yaml"
	DefaultRulebookWatch    = false
	DefaultDebounceInterval = 500 * time.Millisecond
	DefaultMaxFileSize      = int64(10 * 1024 * 1024)

	// Taxonomy defaults
	DefaultTaxonomyPath = "./reasons.yaml"

	// Usage defaults
	DefaultUsageBackend         = "memory"
	DefaultUsageSQLitePath      = "data/usage.db"
	DefaultUsageRetentionDays   = 400
	DefaultUsageCleanupSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"
)

// ApplyDefaults fills in default values for any unset configuration fields.
// Explicitly set zero values for booleans keep their meaning; everything
// else treats the zero value as unset.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	if cfg.Rulebook.Path == "" {
		cfg.Rulebook.Path = DefaultRulebookPath
	}
	if cfg.Rulebook.DebounceInterval == 0 {
		cfg.Rulebook.DebounceInterval = DefaultDebounceInterval
	}
	if cfg.Rulebook.MaxFileSize == 0 {
		cfg.Rulebook.MaxFileSize = DefaultMaxFileSize
	}

	if cfg.Taxonomy.Path == "" {
		cfg.Taxonomy.Path = DefaultTaxonomyPath
	}

	if cfg.Usage.Backend == "" {
		cfg.Usage.Backend = DefaultUsageBackend
	}
	if cfg.Usage.SQLitePath == "" {
		cfg.Usage.SQLitePath = DefaultUsageSQLitePath
	}
	if cfg.Usage.RetentionDays == 0 {
		cfg.Usage.RetentionDays = DefaultUsageRetentionDays
	}
	if cfg.Usage.CleanupSchedule == "" {
		cfg.Usage.CleanupSchedule = DefaultUsageCleanupSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}

// NewDefaultConfig returns a configuration with all defaults applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}
