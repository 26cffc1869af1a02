package engine

import (
	"time"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

// BuildVariables constructs the merged variable map for a clause
// evaluation: global defaults from the shared configuration, submitted
// values, and clause metadata. Rule-specific overrides are applied on top
// by ApplyOverrides; violation-local variables are merged last by the
// resolver, giving the fixed precedence order violation-local over
// rule-specific over global default.
func BuildVariables(clause *ast.Clause, inputs map[string]any, cfg *SharedConfig, now time.Time) map[string]any {
	if cfg == nil {
		cfg = DefaultSharedConfig()
	}

	category := "unknown"
	if clause != nil {
		if name := clause.CategoryName(); name != "" {
			category = name
		}
	}

	currency := "JPY"
	if c, ok := inputs["currency"].(string); ok && c != "" {
		currency = c
	}

	variables := map[string]any{
		"amount":                inputs["amount"],
		"currency":              currency,
		"category":              category,
		"field_name":            "unknown",
		"threshold":             cfg.Defaults.Threshold,
		"limit":                 cfg.Defaults.Limit,
		"minimum":               cfg.Defaults.Minimum,
		"date":                  inputs["recognized_at"],
		"project_code":          inputs["project_code"],
		"approver_name":         inputs["approver"],
		"receipt_type":          inputs["receipt_type"],
		"max_size":              cfg.Defaults.MaxSize,
		"allowed_formats":       cfg.FileFormats,
		"allowed_currencies":    cfg.Currencies,
		"allowed_receipt_types": cfg.ReceiptTypes,
		"allowed_approvers":     cfg.Approvers,
		"submission_window":     cfg.Defaults.SubmissionWindowDays,
		"current_date":          now.Format(dateLayout),
		"min_date":              now.AddDate(-5, 0, 0).Format(dateLayout),
		"max_date":              now.AddDate(1, 0, 0).Format(dateLayout),
		"receipt_amount":        inputs["amount"],
		"submitted_amount":      inputs["amount"],
		"route":                 inputs["route"],
		"destination":           inputs["destination"],
		"purpose":               inputs["purpose"],
		"payment_details":       inputs["payment_details"],
		"num_nights":            inputs["num_nights"],
		"num_people":            inputs["num_people"],
		"check_in_date":         inputs["check_in_date"],
		"check_out_date":        inputs["check_out_date"],
	}

	return variables
}

// ApplyOverrides walks the clause's rule tree and applies rule-specific
// variable overrides on top of the global defaults. Upper amount bounds
// use most-restrictive-wins: the lowest declared bound becomes the limit,
// and on a tie the earlier-declared bound's value stands.
func ApplyOverrides(root *ast.RuleNode, variables map[string]any) {
	if root == nil {
		return
	}

	tightenLimit := func(bound float64) {
		current, ok := toFloat64(variables["limit"])
		if !ok || bound < current {
			variables["limit"] = bound
		}
	}

	root.Walk(func(node *ast.RuleNode) bool {
		c := node.Constraints
		if c == nil {
			return true
		}

		if c.MaxAmountJPY != nil {
			tightenLimit(*c.MaxAmountJPY)
		}
		if c.PerPersonMaxAmountJPY != nil {
			variables["threshold"] = *c.PerPersonMaxAmountJPY
			tightenLimit(*c.PerPersonMaxAmountJPY)
		}
		if c.PerPersonMinAmountJPY != nil {
			variables["minimum"] = *c.PerPersonMinAmountJPY
		}
		if c.ItemUnitMaxAmountJPY != nil {
			variables["item_unit_limit"] = *c.ItemUnitMaxAmountJPY
		}
		if c.ItemUnitMinAmountJPY != nil {
			variables["item_unit_minimum"] = *c.ItemUnitMinAmountJPY
		}
		if c.SubmissionWindowDays > 0 {
			variables["submission_window"] = c.SubmissionWindowDays
		}
		if c.MaxValue != nil {
			tightenLimit(*c.MaxValue)
		}
		if c.Formula != nil && c.Formula.UnitAmountJPY > 0 {
			variables["unit_amount"] = c.Formula.UnitAmountJPY
		}
		if c.Formula != nil && c.Formula.Kind == ast.FormulaFrequencyLimit {
			variables["max_frequency"] = c.Formula.Count
		}

		return true
	})
}
