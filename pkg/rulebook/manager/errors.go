package manager

import (
	"fmt"
	"strings"
)

// LoadError represents an error that occurred during rulebook loading.
// This includes file system errors like "file not found", "permission
// denied", or errors related to file size limits or encoding validation.
type LoadError struct {
	// FilePath is the path to the file that failed to load
	FilePath string

	// Message describes the error
	Message string

	// Cause is the underlying error that caused this load error
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load rulebook file %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load rulebook file %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// RegistryError represents an error during registry operations.
type RegistryError struct {
	// ClauseID is the clause involved, if any
	ClauseID string

	// Operation is the registry operation that failed
	Operation string

	// Message describes the error
	Message string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	if e.ClauseID != "" {
		return fmt.Sprintf("registry %s failed for clause %q: %s", e.Operation, e.ClauseID, e.Message)
	}
	return fmt.Sprintf("registry %s failed: %s", e.Operation, e.Message)
}

// ErrorList collects multiple loading errors so a directory load can report
// every failing file rather than stopping at the first.
type ErrorList struct {
	Errors []error
}

// Add appends an error to the list.
func (l *ErrorList) Add(err error) {
	if err != nil {
		l.Errors = append(l.Errors, err)
	}
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
	fmt.Fprintf(&sb, "%d rulebook load errors:", len(l.Errors))
	for _, err := range l.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}
