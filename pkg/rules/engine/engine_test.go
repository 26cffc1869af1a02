package engine

import (
	"context"
	"reflect"
	"testing"
	"time"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

func fptr(v float64) *float64 { return &v }

// fixedClock returns a deterministic clock for date rules.
func fixedClock() time.Time {
	return time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC) // a Monday
}

func testInterpreter() *Interpreter {
	return NewInterpreter(Config{Clock: fixedClock})
}

// travelClause mirrors a domestic travel clause: route and amount required,
// amount capped at 30000.
func travelClause() *ast.Clause {
	return &ast.Clause{
		ClauseID: "TRAVEL_001",
		Category: map[string]string{"en": "Domestic Travel"},
		Fields: []*ast.FieldDef{
			{Key: "amount", Type: "money", Required: true},
			{Key: "route", Type: "string", Required: true, Label: map[string]string{"en": "Route"}},
		},
		Root: &ast.RuleNode{
			Kind: ast.KindGroup,
			Children: []*ast.RuleNode{
				{Kind: ast.KindRequired, Field: "amount", Constraints: &ast.Constraints{QualifyCode: true}},
				{Kind: ast.KindRequired, Field: "route", Constraints: &ast.Constraints{QualifyCode: true}},
				{Kind: ast.KindAmountConstraint, Field: "amount", Constraints: &ast.Constraints{MaxAmountJPY: fptr(30000)}},
			},
		},
	}
}

func TestEvaluate_AllRulesPass(t *testing.T) {
	interp := testInterpreter()
	eval := interp.Evaluate(context.Background(), travelClause(), map[string]any{
		"amount":  1500.0,
		"route":   "Shinjuku → Shibuya",
		"purpose": "Client meeting",
	})

	if eval.Status != StatusOK {
		t.Errorf("Status = %s, want OK", eval.Status)
	}
	if len(eval.Violations) != 0 {
		t.Errorf("len(Violations) = %d, want 0", len(eval.Violations))
	}
}

func TestEvaluate_MissingRequiredField(t *testing.T) {
	interp := testInterpreter()
	eval := interp.Evaluate(context.Background(), travelClause(), map[string]any{
		"amount": 1500.0,
	})

	if eval.Status != StatusNG {
		t.Fatalf("Status = %s, want NG", eval.Status)
	}
	codes := eval.Codes()
	if !reflect.DeepEqual(codes, []string{"missing_field:route"}) {
		t.Errorf("Codes() = %v, want [missing_field:route]", codes)
	}

	v := eval.Violations[0]
	if v.Variables["field_name"] != "Route" {
		t.Errorf("field_name = %v, want Route", v.Variables["field_name"])
	}
	if v.Variables["category"] != "Domestic Travel" {
		t.Errorf("category = %v, want Domestic Travel", v.Variables["category"])
	}
	if v.Variables["field_context"] == "" {
		t.Error("field_context is empty")
	}
}

func TestEvaluate_AmountExceedsLimit(t *testing.T) {
	interp := testInterpreter()
	eval := interp.Evaluate(context.Background(), travelClause(), map[string]any{
		"amount": 50000.0,
		"route":  "Tokyo → Osaka",
	})

	if eval.Status != StatusNG {
		t.Fatalf("Status = %s, want NG", eval.Status)
	}
	codes := eval.Codes()
	if !reflect.DeepEqual(codes, []string{"amount_exceeds_limit"}) {
		t.Errorf("Codes() = %v, want [amount_exceeds_limit]", codes)
	}
	if eval.Violations[0].Variables["limit"] != 30000.0 {
		t.Errorf("limit = %v, want 30000", eval.Violations[0].Variables["limit"])
	}
}

func TestEvaluate_OrderPreservation(t *testing.T) {
	// Violations must appear in rule declaration order, including rules
	// nested inside groups.
	clause := &ast.Clause{
		ClauseID: "ORDER_001",
		Root: &ast.RuleNode{
			Kind: ast.KindGroup,
			Children: []*ast.RuleNode{
				{Kind: ast.KindRequired, Field: "first", Constraints: &ast.Constraints{QualifyCode: true}},
				{
					Kind: ast.KindGroup,
					Children: []*ast.RuleNode{
						{Kind: ast.KindRequired, Field: "second", Constraints: &ast.Constraints{QualifyCode: true}},
					},
				},
				{Kind: ast.KindRequired, Field: "third", Constraints: &ast.Constraints{QualifyCode: true}},
			},
		},
	}

	interp := testInterpreter()
	eval := interp.Evaluate(context.Background(), clause, map[string]any{})

	want := []string{"missing_field:first", "missing_field:second", "missing_field:third"}
	if !reflect.DeepEqual(eval.Codes(), want) {
		t.Errorf("Codes() = %v, want %v", eval.Codes(), want)
	}
}

func TestEvaluate_Idempotence(t *testing.T) {
	interp := testInterpreter()
	clause := travelClause()
	inputs := map[string]any{"amount": 50000.0}

	first := interp.Evaluate(context.Background(), clause, inputs)
	second := interp.Evaluate(context.Background(), clause, inputs)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated evaluation produced different results")
	}
}

func TestEvaluate_ViolationCountBounded(t *testing.T) {
	clause := travelClause()
	interp := testInterpreter()
	eval := interp.Evaluate(context.Background(), clause, map[string]any{})

	// The amount constraint declares one upper bound, so the tree's
	// violation capacity is one per leaf.
	if len(eval.Violations) > clause.Root.LeafCount() {
		t.Errorf("len(Violations) = %d exceeds leaf count %d",
			len(eval.Violations), clause.Root.LeafCount())
	}
}

func TestEvaluate_MalformedRuleDoesNotBlockSiblings(t *testing.T) {
	clause := &ast.Clause{
		ClauseID: "BAD_001",
		Root: &ast.RuleNode{
			Kind: ast.KindGroup,
			Children: []*ast.RuleNode{
				{Kind: ast.RuleKind("mystery_check"), Field: "amount", Constraints: &ast.Constraints{}},
				{Kind: ast.KindRequired, Field: "route", Constraints: &ast.Constraints{QualifyCode: true}},
			},
		},
	}

	interp := testInterpreter()
	eval := interp.Evaluate(context.Background(), clause, map[string]any{})

	want := []string{"malformed_rule:amount", "missing_field:route"}
	if !reflect.DeepEqual(eval.Codes(), want) {
		t.Errorf("Codes() = %v, want %v", eval.Codes(), want)
	}
}

func TestEvaluate_EmptyTree(t *testing.T) {
	interp := testInterpreter()

	eval := interp.Evaluate(context.Background(), &ast.Clause{ClauseID: "EMPTY_001"}, nil)
	if eval.Status != StatusOK {
		t.Errorf("Status = %s, want OK for empty tree", eval.Status)
	}

	eval = interp.Evaluate(context.Background(), nil, nil)
	if eval.Status != StatusOK {
		t.Errorf("Status = %s, want OK for nil clause", eval.Status)
	}
}

func TestEvaluate_RequiredReasonCodeGating(t *testing.T) {
	clause := &ast.Clause{
		ClauseID: "GATE_001",
		Root: &ast.RuleNode{
			Kind: ast.KindGroup,
			Children: []*ast.RuleNode{
				{
					Kind:  ast.KindRequired,
					Field: "receipt_images",
					Constraints: &ast.Constraints{
						ReasonCode:  "missing_receipt_images",
						QualifyCode: true,
					},
				},
			},
		},
	}

	// Taxonomy that knows the specific code keeps it.
	interp := NewInterpreter(Config{
		Clock:     fixedClock,
		KnownCode: func(code string) bool { return code == "missing_receipt_images" },
	})
	eval := interp.Evaluate(context.Background(), clause, map[string]any{})
	if got := eval.Codes()[0]; got != "missing_receipt_images:receipt_images" {
		t.Errorf("code = %q, want missing_receipt_images:receipt_images", got)
	}

	// Taxonomy without the code falls back to missing_field.
	interp = NewInterpreter(Config{
		Clock:     fixedClock,
		KnownCode: func(code string) bool { return code == "missing_field" },
	})
	eval = interp.Evaluate(context.Background(), clause, map[string]any{})
	if got := eval.Codes()[0]; got != "missing_field:receipt_images" {
		t.Errorf("code = %q, want missing_field:receipt_images", got)
	}
}

func TestEvaluate_PlaceholderCountsAsEmpty(t *testing.T) {
	interp := testInterpreter()
	eval := interp.Evaluate(context.Background(), travelClause(), map[string]any{
		"amount": 1500.0,
		"route":  "(Default)",
	})

	if eval.Status != StatusNG {
		t.Fatalf("Status = %s, want NG", eval.Status)
	}
	if eval.Codes()[0] != "missing_field:route" {
		t.Errorf("Codes()[0] = %q, want missing_field:route", eval.Codes()[0])
	}
}
