package config

import "time"

// Config is the root configuration structure for the ruler server.
// It contains all configuration sections for the HTTP server, the rulebook
// source, the reason taxonomy, usage tracking, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Rulebook contains configuration for the rulebook source including
	// file location and watch mode.
	Rulebook RulebookConfig `yaml:"rulebook"`

	// Taxonomy contains configuration for the reason taxonomy.
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`

	// Usage contains configuration for occurrence tracking backing
	// frequency-limit rules.
	Usage UsageConfig `yaml:"usage"`

	// Telemetry contains configuration for observability including
	// logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are cut off.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// RulebookConfig contains configuration for the rulebook source.
type RulebookConfig struct {
	// Path is the rulebook file or directory to load clauses from.
	// Default: "./rulebook.yaml"
	Path string `yaml:"path"`

	// Watch enables hot reload when the rulebook changes on disk.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is how long to wait after a file event before
	// reloading, coalescing editor write bursts.
	// Default: 500ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// MaxFileSize is the maximum rulebook file size in bytes.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`
}

// TaxonomyConfig contains configuration for the reason taxonomy.
type TaxonomyConfig struct {
	// Path is the taxonomy YAML file.
	// Default: "./reasons.yaml"
	Path string `yaml:"path"`
}

// UsageConfig contains configuration for occurrence tracking.
type UsageConfig struct {
	// Backend selects the occurrence store.
	// Options: "memory", "sqlite". Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the database file when Backend is "sqlite".
	// Default: "data/usage.db"
	SQLitePath string `yaml:"sqlite_path"`

	// RetentionDays is how long occurrences are kept.
	// Default: 400
	RetentionDays int `yaml:"retention_days"`

	// CleanupSchedule is the cron expression for retention cleanup.
	// Empty disables scheduled cleanup.
	// Default: "0 3 * * *"
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error". Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format.
	// Options: "json", "text". Default: "json"
	Format string `yaml:"format"`

	// AddSource includes the source file and line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
