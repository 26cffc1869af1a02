// Package ast provides the in-memory representation of a parsed expense
// rulebook.
//
// A rulebook is an ordered collection of clauses. Each clause describes one
// expense category (e.g. TRAVEL_001) and carries the input fields the
// submitter must provide plus a tree of validation rules. Rule trees are
// closed tagged variants: every node has exactly one RuleKind, kind-specific
// constraint parameters, and (for group nodes only) ordered children.
//
// # Core Types
//
// Rulebook: root node holding version metadata and ordered clauses
//
// Clause: one rulebook entry with field definitions and a rule tree
//
// RuleNode: a single validation rule (or group of rules)
//
// Constraints: kind-specific rule parameters (bounds, patterns, formulas)
//
// Formula: one of the closed set of business-rule formula shapes
//
// Location: source location (file, line, column) for error reporting
//
// # Immutability
//
// AST nodes are built once by the rulebook parser and treated as immutable
// afterwards. The interpreter walks trees without modifying them, which makes
// concurrent evaluation safe without locking.
package ast
