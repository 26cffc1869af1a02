package parser

import (
	"fmt"
	"strings"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

// ErrorType categorizes parser errors.
type ErrorType string

const (
	// ErrorTypeIO indicates a file system error.
	ErrorTypeIO ErrorType = "io"

	// ErrorTypeSyntax indicates a YAML syntax error.
	ErrorTypeSyntax ErrorType = "syntax"

	// ErrorTypeStructural indicates a structurally invalid rulebook
	// (missing clause IDs, duplicate clauses, excessive nesting).
	ErrorTypeStructural ErrorType = "structural"
)

// Error represents a single parser error with source location.
type Error struct {
	Type     ErrorType
	Message  string
	Location ast.Location
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Location.IsValid() {
		return fmt.Sprintf("%s: %s error: %s", e.Location, e.Type, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorList collects multiple parser errors so a single parse reports
// everything wrong with a document instead of stopping at the first issue.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates an empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{}
}

// Add appends an error to the list.
func (l *ErrorList) Add(errType ErrorType, message string, loc ast.Location) {
	l.Errors = append(l.Errors, &Error{
		Type:     errType,
		Message:  message,
		Location: loc,
	})
}

// HasErrors reports whether any errors were collected.
func (l *ErrorList) HasErrors() bool {
	return len(l.Errors) > 0
}

// Error implements the error interface.
func (l *ErrorList) Error() string {
	if len(l.Errors) == 1 {
		return l.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d rulebook errors:", len(l.Errors))
	for _, e := range l.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(e.Error())
	}
	return sb.String()
}
