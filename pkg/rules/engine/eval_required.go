package engine

import (
	"ruler-hq/ruler/pkg/rulebook/ast"
)

// evalRequired fails when the target field is absent, empty, or the demo
// placeholder. The reason code comes from the rule's override when the
// taxonomy knows it, otherwise the generic missing_field.
func evalRequired(ec *evalContext, node *ast.RuleNode) []Violation {
	value := ec.inputs[node.Field]
	if !isEmpty(value) {
		return nil
	}

	code := node.Constraints.ReasonCode
	if code == "" || !ec.knownCode(code) {
		code = "missing_field"
	}

	displayName := node.Field
	if ec.clause != nil {
		if def := ec.clause.Field(node.Field); def != nil {
			displayName = def.DisplayName()
		}
	}

	variables := map[string]any{
		"field_name":    displayName,
		"field_context": fieldContext(node.Field, ec.inputs, ec.shared()),
	}
	if ec.clause != nil {
		variables["category"] = ec.clause.CategoryName()
	}

	v := Violation{
		Code:      code,
		Variables: variables,
	}
	if node.Constraints.QualifyCode {
		v.Field = node.Field
	}
	return []Violation{v}
}
