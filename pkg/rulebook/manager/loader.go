package manager

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"ruler-hq/ruler/pkg/rulebook/ast"
	"ruler-hq/ruler/pkg/rulebook/parser"
)

// LoaderConfig contains configuration for the rulebook loader.
type LoaderConfig struct {
	// MaxFileSize is the maximum file size in bytes (default: 10MB)
	MaxFileSize int64

	// AllowedExtensions is the list of allowed file extensions
	// (default: [".yaml", ".yml"])
	AllowedExtensions []string

	// SkipHidden controls whether to skip hidden files/directories
	// (default: true)
	SkipHidden bool
}

// DefaultLoaderConfig returns the default loader configuration.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		MaxFileSize:       10 * 1024 * 1024, // 10MB
		AllowedExtensions: []string{".yaml", ".yml"},
		SkipHidden:        true,
	}
}

// RulebookLoader handles loading rulebooks from the file system.
// It supports single files and directory structures with validation.
type RulebookLoader struct {
	config *LoaderConfig
	parser *parser.Parser
}

// NewRulebookLoader creates a new rulebook loader.
func NewRulebookLoader(config *LoaderConfig, parser *parser.Parser) *RulebookLoader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &RulebookLoader{
		config: config,
		parser: parser,
	}
}

// LoadFromFile loads a single rulebook file from the given path.
// It performs file size validation, UTF-8 validation, and YAML parsing.
func (l *RulebookLoader) LoadFromFile(path string) (*ast.Rulebook, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: path, Message: "file not found", Cause: err}
		}
		if os.IsPermission(err) {
			return nil, &LoadError{FilePath: path, Message: "permission denied", Cause: err}
		}
		return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}

	if fileInfo.Size() > l.config.MaxFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", fileInfo.Size(), l.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}

	if !utf8.Valid(data) {
		return nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	rb, err := l.parser.ParseBytes(data, path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "rulebook parsing failed", Cause: err}
	}

	return rb, nil
}

// LoadClauses loads all clauses from the given path, which may be a single
// rulebook file or a directory of rulebook files. Clauses appear in file
// order within each rulebook, files in lexical walk order.
func (l *RulebookLoader) LoadClauses(path string) ([]*ast.Clause, error) {
	isDir, err := l.isDirectory(path)
	if err != nil {
		return nil, err
	}

	if !isDir {
		rb, err := l.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		return rb.Clauses, nil
	}

	rulebooks, err := l.LoadFromDirectory(path)
	if err != nil {
		return nil, err
	}

	var clauses []*ast.Clause
	for _, rb := range rulebooks {
		clauses = append(clauses, rb.Clauses...)
	}
	return clauses, nil
}

// LoadFromDirectory loads all rulebook files from the given directory
// recursively. A file that fails to load fails the whole operation: a
// rulebook directory is one logical document and partial loads would leave
// clause resolution dependent on which files happened to parse.
func (l *RulebookLoader) LoadFromDirectory(dir string) ([]*ast.Rulebook, error) {
	fileInfo, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: dir, Message: "directory not found", Cause: err}
		}
		return nil, &LoadError{FilePath: dir, Message: "failed to access directory", Cause: err}
	}

	if !fileInfo.IsDir() {
		return nil, &LoadError{FilePath: dir, Message: "not a directory"}
	}

	files, err := l.collectRulebookFiles(dir)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, &LoadError{FilePath: dir, Message: "no rulebook files found in directory"}
	}

	var rulebooks []*ast.Rulebook
	errList := &ErrorList{}

	for _, filePath := range files {
		rb, err := l.LoadFromFile(filePath)
		if err != nil {
			errList.Add(err)
			continue
		}
		rulebooks = append(rulebooks, rb)
	}

	if errList.HasErrors() {
		return nil, errList
	}

	return rulebooks, nil
}

// collectRulebookFiles collects all rulebook file paths in the directory.
// Files are returned in lexical walk order so clause ordering across files
// is deterministic.
func (l *RulebookLoader) collectRulebookFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if l.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !l.hasValidExtension(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	if err != nil {
		return nil, &LoadError{FilePath: dir, Message: "failed to walk directory", Cause: err}
	}

	return files, nil
}

// hasValidExtension checks if the file has a valid rulebook file extension.
func (l *RulebookLoader) hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, validExt := range l.config.AllowedExtensions {
		if ext == strings.ToLower(validExt) {
			return true
		}
	}
	return false
}

// isDirectory checks if the given path is a directory.
func (l *RulebookLoader) isDirectory(path string) (bool, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, &LoadError{FilePath: path, Message: "path does not exist", Cause: err}
		}
		return false, &LoadError{FilePath: path, Message: "failed to access path", Cause: err}
	}
	return fileInfo.IsDir(), nil
}
