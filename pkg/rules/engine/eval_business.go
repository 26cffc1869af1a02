package engine

import (
	"slices"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

// evalBusinessRule evaluates one of the closed set of declarative formulas.
// Formulas carry parameters (scope, period, multiplier, set name), never
// code, so the evaluator matches exhaustively over the formula kinds.
func evalBusinessRule(ec *evalContext, node *ast.RuleNode) []Violation {
	formula := node.Constraints.Formula
	if formula == nil {
		return []Violation{malformedRule(node, "business rule without formula")}
	}

	switch formula.Kind {
	case ast.FormulaPerUnitCap:
		return evalPerUnitCap(ec, node, formula)
	case ast.FormulaFrequencyLimit:
		return evalFrequencyLimit(ec, node, formula)
	case ast.FormulaAllowedSet:
		return evalAllowedSet(ec, node, formula)
	}

	return []Violation{malformedRule(node, "unrecognized formula kind")}
}

// evalPerUnitCap caps the amount at the unit amount multiplied by a
// submitted variable (e.g. 15000 JPY per night times num_nights). The
// check is skipped when the variable or the amount is missing.
func evalPerUnitCap(ec *evalContext, node *ast.RuleNode, formula *ast.Formula) []Violation {
	if formula.UnitAmountJPY <= 0 || formula.Variable == "" {
		return []Violation{malformedRule(node, "per-unit cap without unit amount or variable")}
	}

	units, ok := toFloat64(ec.inputs[formula.Variable])
	if !ok {
		return nil
	}
	amount, ok := toFloat64(ec.inputs[node.Field])
	if !ok {
		return nil
	}

	limit := formula.UnitAmountJPY * units
	if amount <= limit {
		return nil
	}

	return []Violation{{
		Code: "amount_exceeds_limit",
		Variables: map[string]any{
			"amount":        amount,
			"limit":         limit,
			"unit_amount":   formula.UnitAmountJPY,
			formula.Variable: units,
		},
	}}
}

// evalFrequencyLimit checks past occurrences for the scope value against
// the declared cap. Without a configured counter the rule is skipped;
// counting failures also skip rather than fail the submission, since the
// submission itself is not at fault.
func evalFrequencyLimit(ec *evalContext, node *ast.RuleNode, formula *ast.Formula) []Violation {
	counter := ec.config().Counter
	if counter == nil {
		return nil
	}

	scopeValue := toString(ec.inputs[node.Field])
	if scopeValue == "" {
		return nil
	}

	clauseID := ""
	if ec.clause != nil {
		clauseID = ec.clause.ClauseID
	}

	count, err := counter.Count(ec.ctx, clauseID, formula.Scope, scopeValue, formula.Period)
	if err != nil {
		return nil
	}

	if count < formula.Count {
		return nil
	}

	return []Violation{{
		Code: "frequency_limit_exceeded",
		Variables: map[string]any{
			"max_frequency": formula.Count,
			"occurrences":   count,
			"period":        formula.Period,
			"scope":         formula.Scope,
		},
	}}
}

// evalAllowedSet checks a present field value against a named allowed set
// from the shared configuration. Rule-declared values override the named
// set.
func evalAllowedSet(ec *evalContext, node *ast.RuleNode, formula *ast.Formula) []Violation {
	value := ec.inputs[node.Field]
	if isEmpty(value) {
		return nil
	}

	allowed := node.Constraints.AllowedValues
	if len(allowed) == 0 {
		allowed = ec.shared().AllowedSet(formula.Set)
	}
	if len(allowed) == 0 {
		return nil
	}

	if slices.Contains(allowed, toString(value)) {
		return nil
	}

	code := "invalid_field_value"
	switch formula.Set {
	case "currencies":
		code = "invalid_currency"
	case "receipt_types":
		code = "invalid_receipt_type"
	}

	return []Violation{{
		Code: code,
		Variables: map[string]any{
			"field_name":     node.Field,
			"value":          value,
			"allowed_values": allowed,
		},
	}}
}
