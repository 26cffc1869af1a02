// Ruler is an expense rule validation service.
//
// It loads a YAML rulebook of expense clauses, validates submitted expense
// claims against the clause rule trees, and resolves violations into
// human-readable reasons through a standardized reason taxonomy.
//
// Usage:
//
//	# Start server with default configuration
//	ruler run
//
//	# Start with custom configuration file
//	ruler run --config /path/to/config.yaml
//
//	# Show version information
//	ruler version
//
//	# Validate a configuration file
//	ruler validate --config config.yaml
//
//	# Lint a rulebook against a reason taxonomy
//	ruler lint --rulebook rulebook.yaml --taxonomy reasons.yaml
package main

func main() {
	Execute()
}
