package engine

import (
	"context"
	"time"
)

// SharedConfig is the immutable table of allowed values and defaults the
// evaluators and variable builder consult. It is constructed once at
// startup and passed in explicitly; evaluation has no ambient globals.
type SharedConfig struct {
	Currencies   []string
	FileFormats  []string
	ReceiptTypes []string
	Approvers    []string
	Defaults     Defaults
}

// Defaults holds the global default variable values.
type Defaults struct {
	Threshold            float64
	Limit                float64
	Minimum              float64
	MaxSize              string
	SubmissionWindowDays int
}

// DefaultSharedConfig returns the standard shared configuration.
func DefaultSharedConfig() *SharedConfig {
	return &SharedConfig{
		Currencies:   []string{"JPY", "USD", "EUR"},
		FileFormats:  []string{"JPEG", "PNG", "PDF"},
		ReceiptTypes: []string{"receipt", "invoice", "credit_card"},
		Approvers:    []string{"manager", "director", "vp"},
		Defaults: Defaults{
			Threshold:            1000,
			Limit:                1000000,
			Minimum:              0,
			MaxSize:              "10MB",
			SubmissionWindowDays: 30,
		},
	}
}

// AllowedSet returns the named allowed-value set, or nil if unknown.
func (c *SharedConfig) AllowedSet(name string) []string {
	switch name {
	case "currencies":
		return c.Currencies
	case "file_formats":
		return c.FileFormats
	case "receipt_types":
		return c.ReceiptTypes
	case "approvers":
		return c.Approvers
	}
	return nil
}

// OccurrenceCounter reports how many times a claim has occurred for a scope
// value within a period window. Frequency-limit rules consult it; all other
// evaluation is I/O free.
type OccurrenceCounter interface {
	Count(ctx context.Context, clauseID, scope, scopeValue, period string) (int, error)
}

// Config configures an Interpreter.
type Config struct {
	// Shared is the allowed-values table. Nil selects DefaultSharedConfig.
	Shared *SharedConfig

	// Clock supplies the current time for date rules. Nil selects
	// time.Now. Tests inject a fixed clock.
	Clock func() time.Time

	// KnownCode reports whether a rulebook-declared reason code exists in
	// the loaded taxonomy. When set, unknown metadata reason codes on
	// required fields fall back to the generic missing_field code and
	// unknown codes on typed rules suppress the rule. Nil accepts all.
	KnownCode func(code string) bool

	// Counter backs frequency-limit rules. Nil skips them.
	Counter OccurrenceCounter
}

// withDefaults returns a copy of the config with nil fields filled in.
func (c Config) withDefaults() Config {
	if c.Shared == nil {
		c.Shared = DefaultSharedConfig()
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}
