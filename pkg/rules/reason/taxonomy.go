package reason

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeverityError and SeverityWarning are the two taxonomy severities.
// Warnings annotate a result without failing it on their own.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Entry is one reason in the taxonomy: a stable code with its display
// label, message template, severity, and suggested fix. Description and
// SuggestedFix may contain {identifier} placeholders filled at resolution
// time.
type Entry struct {
	Code         string
	Label        string
	Description  string
	Severity     string
	SuggestedFix string

	// Variables lists the placeholder identifiers the templates expect.
	// A resolution missing one of them is annotated, not failed.
	Variables []string
}

// Taxonomy is the immutable reason-code table. Entries keep their
// declaration order so listings are stable across loads.
type Taxonomy struct {
	entries map[string]*Entry
	order   []string
}

// Has reports whether the taxonomy declares the code. Field-qualified
// codes ("missing_field:route") match on their base code.
func (t *Taxonomy) Has(code string) bool {
	base, _ := SplitCode(code)
	_, ok := t.entries[base]
	return ok
}

// Get returns the entry for the code's base, or false.
func (t *Taxonomy) Get(code string) (*Entry, bool) {
	base, _ := SplitCode(code)
	entry, ok := t.entries[base]
	return entry, ok
}

// Codes returns all declared codes in declaration order.
func (t *Taxonomy) Codes() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of declared entries.
func (t *Taxonomy) Len() int {
	return len(t.entries)
}

// SplitCode splits a possibly field-qualified reason code into its base
// code and field name. Codes without a qualifier return an empty field.
func SplitCode(code string) (base, field string) {
	if i := strings.IndexByte(code, ':'); i >= 0 {
		return code[:i], code[i+1:]
	}
	return code, ""
}

// yamlTaxonomy matches the taxonomy document. The reasons mapping is kept
// as a raw node so entry declaration order survives decoding.
// reason_taxonomy is accepted as an alternate key for documents converted
// from the legacy JSON layout.
type yamlTaxonomy struct {
	Reasons        yaml.Node `yaml:"reasons"`
	ReasonTaxonomy yaml.Node `yaml:"reason_taxonomy"`
}

// yamlEntry is the intermediate structure for one taxonomy entry.
type yamlEntry struct {
	Label        string   `yaml:"label"`
	Description  string   `yaml:"description"`
	Severity     string   `yaml:"severity"`
	SuggestedFix string   `yaml:"suggested_fix"`
	Variables    []string `yaml:"variables"`
}

// LoadTaxonomy reads and parses a taxonomy YAML file.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TaxonomyError{Message: fmt.Sprintf("read %s", path), Cause: err}
	}
	t, err := ParseTaxonomy(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTaxonomy parses taxonomy bytes. Every entry needs a label and a
// description; severity defaults to error.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var doc yamlTaxonomy
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &TaxonomyError{Message: "invalid YAML", Cause: err}
	}
	reasons := doc.Reasons
	if reasons.Kind == 0 {
		reasons = doc.ReasonTaxonomy
	}
	if reasons.Kind == 0 {
		return nil, &TaxonomyError{Message: "document has no reasons mapping"}
	}
	if reasons.Kind != yaml.MappingNode {
		return nil, &TaxonomyError{Message: "reasons must be a mapping of code to entry"}
	}

	t := &Taxonomy{entries: make(map[string]*Entry)}

	// Mapping nodes store keys and values as alternating content entries.
	content := reasons.Content
	for i := 0; i+1 < len(content); i += 2 {
		code := content[i].Value
		if code == "" {
			return nil, &TaxonomyError{Message: fmt.Sprintf("empty reason code at line %d", content[i].Line)}
		}
		if _, exists := t.entries[code]; exists {
			return nil, &TaxonomyError{Code: code, Message: "duplicate reason code"}
		}

		var ye yamlEntry
		if err := content[i+1].Decode(&ye); err != nil {
			return nil, &TaxonomyError{Code: code, Message: "malformed entry", Cause: err}
		}
		entry, err := buildEntry(code, &ye)
		if err != nil {
			return nil, err
		}

		t.entries[code] = entry
		t.order = append(t.order, code)
	}

	if len(t.entries) == 0 {
		return nil, &TaxonomyError{Message: "taxonomy declares no reasons"}
	}
	return t, nil
}

func buildEntry(code string, ye *yamlEntry) (*Entry, error) {
	if ye.Label == "" {
		return nil, &TaxonomyError{Code: code, Message: "entry has no label"}
	}
	if ye.Description == "" {
		return nil, &TaxonomyError{Code: code, Message: "entry has no description"}
	}

	severity := ye.Severity
	switch severity {
	case "":
		severity = SeverityError
	case SeverityError, SeverityWarning:
	default:
		return nil, &TaxonomyError{Code: code, Message: fmt.Sprintf("unknown severity %q", ye.Severity)}
	}

	return &Entry{
		Code:         code,
		Label:        ye.Label,
		Description:  ye.Description,
		Severity:     severity,
		SuggestedFix: ye.SuggestedFix,
		Variables:    ye.Variables,
	}, nil
}
