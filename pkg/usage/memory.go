package usage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory occurrence store for single-instance
// deployments and tests. It keeps every recorded occurrence until Cleanup
// runs.
type MemoryStore struct {
	mu          sync.RWMutex
	occurrences []Occurrence
	clock       func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clock: time.Now}
}

// WithClock overrides the store's clock. Tests use this to pin the
// period windows.
func (s *MemoryStore) WithClock(clock func() time.Time) *MemoryStore {
	s.clock = clock
	return s
}

// Record persists one occurrence.
func (s *MemoryStore) Record(_ context.Context, occ Occurrence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if occ.OccurredAt.IsZero() {
		occ.OccurredAt = s.clock()
	}
	s.occurrences = append(s.occurrences, occ)
	return nil
}

// Count returns the matching occurrences within the period window.
func (s *MemoryStore) Count(_ context.Context, clauseID, scope, scopeValue, period string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := periodStart(s.clock(), period)
	count := 0
	for _, occ := range s.occurrences {
		if occ.ClauseID == clauseID && occ.Scope == scope && occ.ScopeValue == scopeValue &&
			!occ.OccurredAt.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

// Cleanup deletes occurrences older than the cutoff.
func (s *MemoryStore) Cleanup(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.occurrences[:0]
	deleted := 0
	for _, occ := range s.occurrences {
		if occ.OccurredAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, occ)
	}
	s.occurrences = kept
	return deleted, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
