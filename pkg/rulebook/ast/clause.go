package ast

import "sort"

// FieldDef describes one input field a clause expects from the submitter.
// Field definitions drive required-field checks and demo option generation;
// they carry no validation logic of their own.
type FieldDef struct {
	// Key is the field key submitted by the caller (e.g. "receipt_images").
	Key string

	// Type is the declared field type ("string", "money", "integer",
	// "date", "enum", "boolean", "array").
	Type string

	// Required marks the field as mandatory.
	Required bool

	// AllowedValues is the closed value set for enum fields.
	AllowedValues []string

	// Label holds display names keyed by language code ("en", "ja").
	Label map[string]string

	// Description and Purpose are free-text field documentation, used as
	// display-name fallbacks when no label is declared.
	Description string
	Purpose     string

	// Metadata holds boolean requirement markers that map the field to a
	// specific missing-field reason code (e.g. receipt_required).
	Metadata map[string]bool

	// Location is the source location, for diagnostics.
	Location Location
}

// DisplayName returns the best human-readable name for the field:
// the English label, another declared label, description, purpose, then
// the key.
func (f *FieldDef) DisplayName() string {
	if name := labelFallback(f.Label); name != "" {
		return name
	}
	if f.Description != "" {
		return f.Description
	}
	if f.Purpose != "" {
		return f.Purpose
	}
	return f.Key
}

// Clause represents one named entry in the rulebook, identified by a clause
// ID such as TRAVEL_001. A clause owns its field definitions and rule tree.
type Clause struct {
	// ClauseID is the unique clause identifier.
	ClauseID string

	// Category holds the expense category label keyed by language code.
	Category map[string]string

	// Fields are the declared input fields, in declaration order.
	Fields []*FieldDef

	// Root is the root of the validation rule tree. The parser always
	// builds a group root; a clause with no rules has an empty group.
	Root *RuleNode

	// SourceFile is the path of the file this clause was loaded from.
	SourceFile string

	// Location is the source location, for diagnostics.
	Location Location
}

// Field returns the field definition with the given key, or nil.
func (c *Clause) Field(key string) *FieldDef {
	for _, f := range c.Fields {
		if f.Key == key {
			return f
		}
	}
	return nil
}

// RequiredFields returns the declared fields marked required, in order.
func (c *Clause) RequiredFields() []*FieldDef {
	var required []*FieldDef
	for _, f := range c.Fields {
		if f.Required {
			required = append(required, f)
		}
	}
	return required
}

// CategoryName returns the English category label, falling back to
// another declared label and finally the clause ID.
func (c *Clause) CategoryName() string {
	if name := labelFallback(c.Category); name != "" {
		return name
	}
	return c.ClauseID
}

// labelFallback picks a label deterministically: "en" wins, then "ja",
// then the remaining languages in sorted order.
func labelFallback(labels map[string]string) string {
	for _, lang := range []string{"en", "ja"} {
		if name := labels[lang]; name != "" {
			return name
		}
	}
	langs := make([]string, 0, len(labels))
	for lang := range labels {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if name := labels[lang]; name != "" {
			return name
		}
	}
	return ""
}

// RuleCount returns the number of leaf rules in the clause's tree.
func (c *Clause) RuleCount() int {
	if c.Root == nil {
		return 0
	}
	return c.Root.LeafCount()
}
