package usage

import (
	"context"
	"time"
)

// Occurrence is one recorded claim occurrence for frequency tracking.
type Occurrence struct {
	// ClauseID is the clause the claim was validated against.
	ClauseID string

	// Scope is the grouping the frequency limit counts over
	// ("person", "department").
	Scope string

	// ScopeValue is the identifier within the scope (an employee ID, a
	// department code).
	ScopeValue string

	// OccurredAt is when the claim occurred.
	OccurredAt time.Time
}

// Store persists claim occurrences and answers frequency-limit queries.
// Count satisfies the interpreter's occurrence counter, so a store can be
// plugged into validation directly.
type Store interface {
	// Record persists one occurrence.
	Record(ctx context.Context, occ Occurrence) error

	// Count returns how many occurrences match the clause, scope, and
	// scope value within the period window ending now.
	Count(ctx context.Context, clauseID, scope, scopeValue, period string) (int, error)

	// Cleanup deletes occurrences older than the cutoff and returns how
	// many were deleted.
	Cleanup(ctx context.Context, before time.Time) (int, error)

	// Close releases the store's resources.
	Close() error
}

// periodStart returns the start of the period window containing now.
// Weeks start on Monday; an unrecognized period falls back to month.
func periodStart(now time.Time, period string) time.Time {
	switch period {
	case "day":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := now.AddDate(0, 0, -(weekday - 1))
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
