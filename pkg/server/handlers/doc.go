// Package handlers implements the ruler HTTP endpoints: health, clause
// listing and detail, demo option generation, and claim evaluation.
package handlers
