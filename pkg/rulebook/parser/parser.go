package parser

import (
	"fmt"
	"os"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

// Parser parses rulebook files into clause ASTs.
// It handles YAML parsing, AST construction, and structural validation.
type Parser struct {
	maxFileSize int64 // Maximum file size in bytes (default: 10MB)
	maxDepth    int   // Maximum validation-rule nesting depth (default: 10)
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 10 * 1024 * 1024, // 10MB
		maxDepth:    10,
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithMaxDepth sets the maximum validation-rule nesting depth.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// Parse parses a rulebook file at the given path and returns the AST.
// It returns an error if the file cannot be read, has invalid YAML syntax,
// or contains structural errors. Structural errors are collected into an
// ErrorList so one parse reports everything wrong with the document.
func (p *Parser) Parse(path string) (*ast.Rulebook, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("failed to access file: %v", err),
			Location: ast.Location{File: path},
			Cause:    err,
		}
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("file size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	yrb, err := parseYAMLFile(path)
	if err != nil {
		return nil, &Error{
			Type:     ErrorTypeSyntax,
			Message:  fmt.Sprintf("YAML parsing failed: %v", err),
			Location: ast.Location{File: path, Line: 1},
			Cause:    err,
		}
	}

	return newBuilder(path, p.maxDepth).buildRulebook(yrb)
}

// ParseBytes parses rulebook YAML from a byte slice. The sourcePath is used
// only for error locations. This is useful for testing or parsing rulebooks
// from memory.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ast.Rulebook, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &Error{
			Type:     ErrorTypeIO,
			Message:  fmt.Sprintf("data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	yrb, err := parseYAMLBytes(data)
	if err != nil {
		return nil, &Error{
			Type:     ErrorTypeSyntax,
			Message:  fmt.Sprintf("YAML parsing failed: %v", err),
			Location: ast.Location{File: sourcePath, Line: 1},
			Cause:    err,
		}
	}

	return newBuilder(sourcePath, p.maxDepth).buildRulebook(yrb)
}
