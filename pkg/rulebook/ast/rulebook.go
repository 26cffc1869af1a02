package ast

// Rulebook represents a parsed rulebook document: version metadata plus an
// ordered collection of clauses. Clause order is preserved from the source
// document and is significant for listing endpoints.
type Rulebook struct {
	// Version is the rulebook schema version declared in the document.
	Version string

	// Clauses are the rulebook entries in declaration order.
	Clauses []*Clause

	// SourceFile is the path the rulebook was loaded from.
	SourceFile string
}

// Clause returns the clause with the given ID and whether it exists.
func (rb *Rulebook) Clause(id string) (*Clause, bool) {
	for _, c := range rb.Clauses {
		if c.ClauseID == id {
			return c, true
		}
	}
	return nil, false
}

// ClauseIDs returns all clause IDs in declaration order.
func (rb *Rulebook) ClauseIDs() []string {
	ids := make([]string, 0, len(rb.Clauses))
	for _, c := range rb.Clauses {
		ids = append(ids, c.ClauseID)
	}
	return ids
}

// ClauseCount returns the number of clauses in the rulebook.
func (rb *Rulebook) ClauseCount() int {
	return len(rb.Clauses)
}
