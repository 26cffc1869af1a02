package manager

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

// ClauseRegistry is a thread-safe in-memory store for loaded clauses.
// Updates replace the whole clause set atomically so readers never observe
// a half-reloaded rulebook.
type ClauseRegistry struct {
	mu       sync.RWMutex
	clauses  map[string]*ast.Clause
	order    []string
	version  string
	loadTime time.Time
}

// NewClauseRegistry creates a new empty clause registry.
func NewClauseRegistry() *ClauseRegistry {
	return &ClauseRegistry{
		clauses:  make(map[string]*ast.Clause),
		loadTime: time.Now(),
	}
}

// Replace atomically replaces the entire clause set with a new set.
// This is the only mutation path; hot reload swaps the full set or nothing.
func (r *ClauseRegistry) Replace(clauses []*ast.Clause) error {
	for _, clause := range clauses {
		if clause == nil {
			return &RegistryError{Operation: "replace", Message: "clause cannot be nil"}
		}
		if clause.ClauseID == "" {
			return &RegistryError{Operation: "replace", Message: "clause ID cannot be empty"}
		}
	}

	newClauses := make(map[string]*ast.Clause, len(clauses))
	newOrder := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		if _, dup := newClauses[clause.ClauseID]; dup {
			return &RegistryError{
				ClauseID:  clause.ClauseID,
				Operation: "replace",
				Message:   "duplicate clause ID",
			}
		}
		newClauses[clause.ClauseID] = clause
		newOrder = append(newOrder, clause.ClauseID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.clauses = newClauses
	r.order = newOrder
	r.loadTime = time.Now()
	r.updateVersion()

	return nil
}

// Get retrieves a clause by ID.
func (r *ClauseRegistry) Get(id string) (*ast.Clause, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clause, ok := r.clauses[id]
	return clause, ok
}

// Has reports whether a clause with the given ID exists.
func (r *ClauseRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.clauses[id]
	return ok
}

// GetAll retrieves all clauses in rulebook declaration order.
// The returned slice is a copy and will not be modified by the registry.
func (r *ClauseRegistry) GetAll() []*ast.Clause {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clauses := make([]*ast.Clause, 0, len(r.order))
	for _, id := range r.order {
		clauses = append(clauses, r.clauses[id])
	}
	return clauses
}

// ClauseIDs returns all clause IDs in rulebook declaration order.
func (r *ClauseRegistry) ClauseIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Count returns the number of clauses in the registry.
func (r *ClauseRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clauses)
}

// Version returns the current version of the registry. The version changes
// whenever the clause set is replaced.
func (r *ClauseRegistry) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.version
}

// LoadTime returns the timestamp of the last successful replace.
func (r *ClauseRegistry) LoadTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.loadTime
}

// Stats returns statistics about the registered clauses.
func (r *ClauseRegistry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{
		ClauseCount: len(r.clauses),
		LoadTime:    r.loadTime,
		Version:     r.version,
	}
	for _, clause := range r.clauses {
		stats.TotalRules += clause.RuleCount()
	}
	return stats
}

// updateVersion recomputes the registry version hash.
// Must be called with the write lock held.
func (r *ClauseRegistry) updateVersion() {
	h := sha256.New()

	ids := make([]string, 0, len(r.clauses))
	for id := range r.clauses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		clause := r.clauses[id]
		h.Write([]byte(clause.ClauseID))
		h.Write([]byte(clause.SourceFile))
		fmt.Fprintf(h, "%d", clause.RuleCount())
	}

	r.version = fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// RegistryStats contains statistics about the clause registry.
type RegistryStats struct {
	ClauseCount int
	TotalRules  int
	LoadTime    time.Time
	Version     string
}
