package parser

import (
	"strings"
	"testing"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

func TestParser_Parse_Expenses(t *testing.T) {
	parser := NewParser()
	rb, err := parser.Parse("testdata/valid/expenses.yaml")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if rb.Version != "1.0" {
		t.Errorf("Version = %q, want %q", rb.Version, "1.0")
	}
	if rb.ClauseCount() != 3 {
		t.Fatalf("ClauseCount() = %d, want 3", rb.ClauseCount())
	}

	wantIDs := []string{"TRAVEL_001", "TRAVEL_002", "HOTEL_001"}
	gotIDs := rb.ClauseIDs()
	for i, want := range wantIDs {
		if gotIDs[i] != want {
			t.Errorf("ClauseIDs()[%d] = %q, want %q", i, gotIDs[i], want)
		}
	}
}

func TestParser_Parse_Travel001Tree(t *testing.T) {
	parser := NewParser()
	rb, err := parser.Parse("testdata/valid/expenses.yaml")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	clause, ok := rb.Clause("TRAVEL_001")
	if !ok {
		t.Fatal("Clause(TRAVEL_001) not found")
	}

	if clause.CategoryName() != "Domestic Travel" {
		t.Errorf("CategoryName() = %q, want %q", clause.CategoryName(), "Domestic Travel")
	}
	if len(clause.Fields) != 3 {
		t.Fatalf("len(Fields) = %d, want 3", len(clause.Fields))
	}

	// Two required-field nodes, then the validation rules in declaration
	// order: receipt_required, amount_constraints, currency_validation,
	// date_validation. The allowed_currencies companion key adds no node.
	children := clause.Root.Children
	if len(children) != 6 {
		t.Fatalf("len(Root.Children) = %d, want 6", len(children))
	}

	if children[0].Kind != ast.KindRequired || children[0].Field != "amount" {
		t.Errorf("child 0 = %s/%s, want required/amount", children[0].Kind, children[0].Field)
	}
	if children[1].Kind != ast.KindRequired || children[1].Field != "route_info" {
		t.Errorf("child 1 = %s/%s, want required/route_info", children[1].Kind, children[1].Field)
	}
	if children[1].Constraints.ReasonCode != "missing_route_info" {
		t.Errorf("route_info reason code = %q, want missing_route_info", children[1].Constraints.ReasonCode)
	}
	if children[2].Kind != ast.KindRequired || children[2].Field != "receipt_images" {
		t.Errorf("child 2 = %s/%s, want required/receipt_images", children[2].Kind, children[2].Field)
	}
	if children[2].Constraints.ReasonCode != "missing_receipt_images" {
		t.Errorf("receipt reason code = %q, want missing_receipt_images", children[2].Constraints.ReasonCode)
	}

	amount := children[3]
	if amount.Kind != ast.KindAmountConstraint {
		t.Fatalf("child 3 kind = %s, want amount_constraint", amount.Kind)
	}
	if amount.Constraints.MaxAmountJPY == nil || *amount.Constraints.MaxAmountJPY != 50000 {
		t.Errorf("MaxAmountJPY = %v, want 50000", amount.Constraints.MaxAmountJPY)
	}

	currency := children[4]
	if currency.Kind != ast.KindBusinessRule || currency.Field != "currency" {
		t.Fatalf("child 4 = %s/%s, want business_rule/currency", currency.Kind, currency.Field)
	}
	if currency.Constraints.Formula == nil || currency.Constraints.Formula.Kind != ast.FormulaAllowedSet {
		t.Fatal("currency rule has no allowed_set formula")
	}
	if len(currency.Constraints.AllowedValues) != 1 || currency.Constraints.AllowedValues[0] != "JPY" {
		t.Errorf("AllowedValues = %v, want [JPY]", currency.Constraints.AllowedValues)
	}

	date := children[5]
	if date.Kind != ast.KindDateValidation || date.Field != "recognized_at" {
		t.Fatalf("child 5 = %s/%s, want date_validation/recognized_at", date.Kind, date.Field)
	}
	if !date.Constraints.FutureDatesNotAllowed {
		t.Error("FutureDatesNotAllowed = false, want true")
	}
	if date.Constraints.SubmissionWindowDays != 30 {
		t.Errorf("SubmissionWindowDays = %d, want 30", date.Constraints.SubmissionWindowDays)
	}
}

func TestParser_Parse_Hotel001Formulas(t *testing.T) {
	parser := NewParser()
	rb, err := parser.Parse("testdata/valid/expenses.yaml")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	clause, ok := rb.Clause("HOTEL_001")
	if !ok {
		t.Fatal("Clause(HOTEL_001) not found")
	}

	children := clause.Root.Children
	if len(children) != 7 {
		t.Fatalf("len(Root.Children) = %d, want 7", len(children))
	}

	accom := children[4]
	if accom.Kind != ast.KindAccommodationDates {
		t.Fatalf("child 4 kind = %s, want accommodation_dates", accom.Kind)
	}
	wantPair := []string{"check_in_date", "check_out_date"}
	for i, f := range wantPair {
		if accom.Constraints.AllowedValues[i] != f {
			t.Errorf("date pair[%d] = %q, want %q", i, accom.Constraints.AllowedValues[i], f)
		}
	}

	perNight := children[5]
	if perNight.Kind != ast.KindBusinessRule {
		t.Fatalf("child 5 kind = %s, want business_rule", perNight.Kind)
	}
	f := perNight.Constraints.Formula
	if f == nil || f.Kind != ast.FormulaPerUnitCap {
		t.Fatal("child 5 has no per_unit_cap formula")
	}
	if f.UnitAmountJPY != 15000 {
		t.Errorf("UnitAmountJPY = %v, want 15000", f.UnitAmountJPY)
	}
	if f.Variable != "num_nights" {
		t.Errorf("Variable = %q, want num_nights", f.Variable)
	}

	freq := children[6]
	if freq.Kind != ast.KindBusinessRule {
		t.Fatalf("child 6 kind = %s, want business_rule", freq.Kind)
	}
	ff := freq.Constraints.Formula
	if ff == nil || ff.Kind != ast.FormulaFrequencyLimit {
		t.Fatal("child 6 has no frequency_limit formula")
	}
	if ff.Scope != "person" || ff.Count != 10 || ff.Period != "month" {
		t.Errorf("frequency = %s/%d/%s, want person/10/month", ff.Scope, ff.Count, ff.Period)
	}
	if freq.Field != "employee_id" {
		t.Errorf("scope field = %q, want employee_id", freq.Field)
	}
}

func TestParser_ParseBytes_DuplicateClauseID(t *testing.T) {
	data := []byte(`
version: "1.0"
rules:
  - clause_id: "MEAL_001"
    required_fields:
      inputs:
        - key: "amount"
          type: "money"
          required: true
  - clause_id: "MEAL_001"
    required_fields:
      inputs: []
`)
	_, err := NewParser().ParseBytes(data, "memory://dup")
	if err == nil {
		t.Fatal("ParseBytes() succeeded, want duplicate clause error")
	}
	if !strings.Contains(err.Error(), "duplicate clause ID") {
		t.Errorf("error = %v, want duplicate clause ID mention", err)
	}
}

func TestParser_ParseBytes_MissingClauseID(t *testing.T) {
	data := []byte(`
version: "1.0"
rules:
  - expense_category:
      en: "Nameless"
`)
	_, err := NewParser().ParseBytes(data, "memory://anon")
	if err == nil {
		t.Fatal("ParseBytes() succeeded, want missing clause_id error")
	}
	errList, ok := err.(*ErrorList)
	if !ok {
		t.Fatalf("error type = %T, want *ErrorList", err)
	}
	if errList.Errors[0].Type != ErrorTypeStructural {
		t.Errorf("error type = %q, want structural", errList.Errors[0].Type)
	}
}

func TestParser_ParseBytes_InvalidYAML(t *testing.T) {
	data := []byte("version: [unclosed")
	_, err := NewParser().ParseBytes(data, "memory://bad")
	if err == nil {
		t.Fatal("ParseBytes() succeeded, want syntax error")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if perr.Type != ErrorTypeSyntax {
		t.Errorf("error type = %q, want syntax", perr.Type)
	}
}

func TestParser_ParseBytes_SizeLimit(t *testing.T) {
	data := []byte("version: \"1.0\"\nrules: []\n")
	_, err := NewParser().WithMaxFileSize(4).ParseBytes(data, "memory://big")
	if err == nil {
		t.Fatal("ParseBytes() succeeded, want size limit error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Type != ErrorTypeIO {
		t.Errorf("error = %v, want io error", err)
	}
}

func TestParser_ParseBytes_NestedGroups(t *testing.T) {
	data := []byte(`
version: "1.0"
rules:
  - clause_id: "TAXI_001"
    required_fields:
      inputs:
        - key: "amount"
          type: "money"
          required: true
    validation_rules:
      late_night:
        surcharge_check:
          field_name: "amount"
          type: "range"
          max_value: 20000
`)
	rb, err := NewParser().ParseBytes(data, "memory://nested")
	if err != nil {
		t.Fatalf("ParseBytes() failed: %v", err)
	}

	clause, _ := rb.Clause("TAXI_001")
	children := clause.Root.Children
	if len(children) != 2 {
		t.Fatalf("len(Root.Children) = %d, want 2", len(children))
	}

	group := children[1]
	if !group.IsGroup() {
		t.Fatalf("child 1 kind = %s, want group", group.Kind)
	}
	if len(group.Children) != 1 {
		t.Fatalf("len(group.Children) = %d, want 1", len(group.Children))
	}
	rangeRule := group.Children[0]
	if rangeRule.Kind != ast.KindRange || rangeRule.Field != "amount" {
		t.Errorf("nested rule = %s/%s, want range/amount", rangeRule.Kind, rangeRule.Field)
	}
	if rangeRule.Constraints.MaxValue == nil || *rangeRule.Constraints.MaxValue != 20000 {
		t.Errorf("MaxValue = %v, want 20000", rangeRule.Constraints.MaxValue)
	}
}

func TestParser_ParseBytes_DepthLimit(t *testing.T) {
	data := []byte(`
version: "1.0"
rules:
  - clause_id: "DEEP_001"
    required_fields:
      inputs: []
    validation_rules:
      a:
        b:
          c:
            field_name: "amount"
            type: "range"
            max_value: 1
`)
	_, err := NewParser().WithMaxDepth(1).ParseBytes(data, "memory://deep")
	if err == nil {
		t.Fatal("ParseBytes() succeeded, want depth error")
	}
	if !strings.Contains(err.Error(), "nested deeper") {
		t.Errorf("error = %v, want nesting depth mention", err)
	}
}
