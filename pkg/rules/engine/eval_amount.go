package engine

import (
	"ruler-hq/ruler/pkg/rulebook/ast"
)

// evalRange validates a present numeric value against min/max bounds.
func evalRange(ec *evalContext, node *ast.RuleNode) []Violation {
	value := ec.inputs[node.Field]
	if isEmpty(value) {
		return nil
	}

	f, ok := toFloat64(value)
	if !ok {
		return nil
	}

	c := node.Constraints

	if c.MaxValue != nil && f > *c.MaxValue {
		code := c.ReasonCode
		if code == "" {
			code = "amount_exceeds_limit"
		}
		if !ec.knownCode(code) {
			return nil
		}
		return []Violation{{
			Code: code,
			Variables: map[string]any{
				"field_name": node.Field,
				"amount":     f,
				"limit":      *c.MaxValue,
			},
		}}
	}

	if c.MinValue != nil && f < *c.MinValue {
		code := c.ReasonCode
		if code == "" {
			code = "amount_below_minimum"
		}
		if !ec.knownCode(code) {
			return nil
		}
		return []Violation{{
			Code: code,
			Variables: map[string]any{
				"field_name": node.Field,
				"amount":     f,
				"minimum":    *c.MinValue,
			},
		}}
	}

	return nil
}

// evalAmountConstraint validates a monetary amount against the clause's
// declared bounds. Each violated bound emits its own violation with the
// violated bound as the violation-local limit, so rendered reasons always
// name the specific bound that failed.
func evalAmountConstraint(ec *evalContext, node *ast.RuleNode) []Violation {
	value := ec.inputs[node.Field]
	f, ok := toFloat64(value)
	if !ok {
		return nil
	}

	c := node.Constraints
	var violations []Violation

	exceeds := func(limit float64) {
		violations = append(violations, Violation{
			Code: "amount_exceeds_limit",
			Variables: map[string]any{
				"amount": f,
				"limit":  limit,
			},
		})
	}
	below := func(minimum float64) {
		violations = append(violations, Violation{
			Code: "amount_below_minimum",
			Variables: map[string]any{
				"amount":  f,
				"minimum": minimum,
			},
		})
	}

	if c.MaxAmountJPY != nil && f > *c.MaxAmountJPY {
		exceeds(*c.MaxAmountJPY)
	}
	if c.PerPersonMaxAmountJPY != nil && f > *c.PerPersonMaxAmountJPY {
		exceeds(*c.PerPersonMaxAmountJPY)
	}

	if c.PerPersonMinAmountJPY != nil {
		min := *c.PerPersonMinAmountJPY
		if c.PerPersonMinExclusive {
			if f <= min {
				below(min)
			}
		} else if f < min {
			below(min)
		}
	}

	if c.ItemUnitMaxAmountJPY != nil && f > *c.ItemUnitMaxAmountJPY {
		exceeds(*c.ItemUnitMaxAmountJPY)
	}

	if c.ItemUnitMinAmountJPY != nil {
		min := *c.ItemUnitMinAmountJPY
		// Item unit minimums are inclusive unless declared otherwise.
		inclusive := c.ItemUnitMinInclusive == nil || *c.ItemUnitMinInclusive
		if inclusive {
			if f < min {
				below(min)
			}
		} else if f <= min {
			below(min)
		}
	}

	return violations
}
