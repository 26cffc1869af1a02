// Package config defines the ruler server configuration: YAML loading,
// defaults, RULER_* environment overrides, and validation.
//
// The loading sequence is file, then defaults, then environment overrides,
// then validation. Validation collects every failure instead of stopping
// at the first so operators can fix a bad file in one round.
package config
