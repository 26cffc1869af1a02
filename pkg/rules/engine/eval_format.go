package engine

import (
	"regexp"
	"slices"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

// evalFormat validates a present value against the declared format: a named
// format check, a regular expression pattern, or an allowed-value set.
// Absent values pass; presence is the required rule's concern.
func evalFormat(ec *evalContext, node *ast.RuleNode) []Violation {
	value := ec.inputs[node.Field]
	if isEmpty(value) {
		return nil
	}

	code := node.Constraints.ReasonCode
	if code == "" {
		code = "invalid_field_format"
	}
	if !ec.knownCode(code) {
		return nil
	}

	if formatValid(ec, node.Constraints, value) {
		return nil
	}

	return []Violation{{
		Code: code,
		Variables: map[string]any{
			"field_name": node.Field,
			"value":      value,
		},
	}}
}

// formatValid applies the declared format checks. Unknown format types
// pass, matching the permissive handling of unrecognized rulebook data.
func formatValid(ec *evalContext, c *ast.Constraints, value any) bool {
	switch c.FormatType {
	case "date":
		if _, ok := parseDate(value); !ok {
			return false
		}
	case "currency":
		if !slices.Contains(ec.shared().Currencies, toString(value)) {
			return false
		}
	case "enum":
		if len(c.AllowedValues) > 0 && !slices.Contains(c.AllowedValues, toString(value)) {
			return false
		}
	}

	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			// An uncompilable pattern is a rulebook defect, not a
			// submission defect.
			return true
		}
		if !re.MatchString(toString(value)) {
			return false
		}
	}

	if c.FormatType == "" && c.Pattern == "" && len(c.AllowedValues) > 0 {
		return slices.Contains(c.AllowedValues, toString(value))
	}

	return true
}

// evalFieldType validates the submitted value's primitive type against the
// declared field type.
func evalFieldType(ec *evalContext, node *ast.RuleNode) []Violation {
	value := ec.inputs[node.Field]
	if isEmpty(value) {
		return nil
	}

	vars := map[string]any{
		"field_name": node.Field,
		"value":      value,
	}

	switch node.Constraints.FieldType {
	case "enum":
		allowed := node.Constraints.AllowedValues
		if len(allowed) > 0 && !slices.Contains(allowed, toString(value)) {
			vars["allowed_values"] = allowed
			return []Violation{{Code: "invalid_enum_value", Variables: vars}}
		}

	case "date":
		if _, ok := parseDate(value); !ok {
			return []Violation{{Code: "invalid_date", Variables: vars}}
		}

	case "money", "integer":
		f, ok := toFloat64(value)
		if !ok || (node.Constraints.FieldType == "integer" && !isWholeNumber(f)) {
			return []Violation{{Code: "invalid_field_format", Variables: vars}}
		}
		if f <= 0 {
			return []Violation{{Code: "amount_below_minimum", Variables: vars}}
		}

	case "number":
		if _, ok := toFloat64(value); !ok {
			return []Violation{{Code: "invalid_field_format", Variables: vars}}
		}

	case "string":
		if _, ok := value.(string); !ok {
			return []Violation{{Code: "invalid_field_format", Variables: vars}}
		}

	case "boolean":
		if _, ok := value.(bool); !ok {
			return []Violation{{Code: "invalid_field_format", Variables: vars}}
		}
	}

	return nil
}
