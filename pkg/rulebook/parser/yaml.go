package parser

import (
	"os"

	"gopkg.in/yaml.v3"
)

// yamlRulebook is the intermediate structure for parsing rulebook documents.
// It matches the document structure before transformation to the AST.
// Rulebooks are YAML documents; JSON rulebooks parse through the same path
// since JSON is a YAML subset.
type yamlRulebook struct {
	Version string       `yaml:"version"`
	Rules   []yamlClause `yaml:"rules"`
}

// yamlClause is the intermediate structure for a single clause.
// ValidationRules is kept as a raw yaml.Node: rule declaration order inside
// it is significant (it becomes violation order) and decoding into a Go map
// would destroy it.
type yamlClause struct {
	ClauseID        string             `yaml:"clause_id"`
	ExpenseCategory map[string]string  `yaml:"expense_category"`
	RequiredFields  yamlRequiredFields `yaml:"required_fields"`
	ValidationRules yaml.Node          `yaml:"validation_rules"`
}

// yamlRequiredFields wraps the clause's declared input fields.
type yamlRequiredFields struct {
	Inputs []yamlFieldDef `yaml:"inputs"`
}

// yamlFieldDef is the intermediate structure for a field definition.
type yamlFieldDef struct {
	Key           string            `yaml:"key"`
	Type          string            `yaml:"type"`
	Required      bool              `yaml:"required"`
	AllowedValues []string          `yaml:"allowed_values"`
	Label         map[string]string `yaml:"label"`
	Description   string            `yaml:"description"`
	Purpose       string            `yaml:"purpose"`
	Metadata      map[string]bool   `yaml:"metadata"`

	node *yaml.Node // Original YAML node for line numbers
}

// UnmarshalYAML decodes the field definition and retains the original node
// so builds can report accurate source locations.
func (f *yamlFieldDef) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlFieldDef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = yamlFieldDef(p)
	f.node = node
	return nil
}

// parseYAMLFile reads and parses a rulebook file into the intermediate
// structure, preserving YAML nodes for line numbers and declaration order.
func parseYAMLFile(path string) (*yamlRulebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseYAMLBytes(data)
}

// parseYAMLBytes parses rulebook bytes into the intermediate structure.
func parseYAMLBytes(data []byte) (*yamlRulebook, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}

	var rb yamlRulebook
	if err := node.Decode(&rb); err != nil {
		return nil, err
	}

	return &rb, nil
}

// mappingPairs iterates a YAML mapping node in document order, calling fn
// with each key node and value node. Non-mapping nodes yield no pairs.
func mappingPairs(node *yaml.Node, fn func(key, value *yaml.Node)) {
	if node == nil {
		return
	}
	// Unwrap document nodes.
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		fn(node.Content[i], node.Content[i+1])
	}
}

// scalarBool reports whether the node is the boolean true.
func scalarBool(node *yaml.Node) bool {
	var v bool
	if err := node.Decode(&v); err != nil {
		return false
	}
	return v
}

// scalarFloat decodes the node as a number.
func scalarFloat(node *yaml.Node) (float64, bool) {
	var v float64
	if err := node.Decode(&v); err != nil {
		return 0, false
	}
	return v, true
}

// scalarString decodes the node as a string.
func scalarString(node *yaml.Node) (string, bool) {
	var v string
	if err := node.Decode(&v); err != nil {
		return "", false
	}
	return v, true
}

// stringSlice decodes the node as a list of strings.
func stringSlice(node *yaml.Node) []string {
	var v []string
	if err := node.Decode(&v); err != nil {
		return nil
	}
	return v
}
