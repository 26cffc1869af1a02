package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

// metadataReasonCodes maps field metadata markers to the specific
// missing-field reason code they imply. The first marker present on a field
// wins; fields without markers fall back to the generic missing_field code.
var metadataReasonCodes = []struct {
	metaKey    string
	reasonCode string
}{
	{"receipt_required", "missing_receipt_images"},
	{"approval_required", "missing_pre_approval"},
	{"invoice_required", "missing_invoice_number"},
	{"project_required", "missing_project_code"},
	{"route_required", "missing_route_info"},
	{"destination_required", "missing_destination"},
	{"purpose_required", "missing_purpose"},
	{"payment_required", "missing_payment_details"},
	{"nights_required", "missing_nights_count"},
	{"people_required", "missing_people_count"},
}

// booleanRequirements maps boolean validation-rule keys to the field they
// require and the reason code emitted when it is missing.
var booleanRequirements = map[string]struct {
	field      string
	reasonCode string
}{
	"receipt_required":        {"receipt_images", "missing_receipt_images"},
	"invoice_number_required": {"invoice_registration_number", "missing_invoice_number"},
	"project_code_required":   {"project_code", "missing_project_code"},
	"pre_approval_required":   {"pre_approval_id", "missing_pre_approval"},
}

// yamlTypedRule is the intermediate structure for an explicitly typed
// validation rule (a mapping with field_name and type keys).
type yamlTypedRule struct {
	Type                  string   `yaml:"type"`
	FieldName             string   `yaml:"field_name"`
	ReasonCode            string   `yaml:"reason_code"`
	FormatType            string   `yaml:"format_type"`
	Pattern               string   `yaml:"pattern"`
	AllowedValues         []string `yaml:"allowed_values"`
	MinValue              *float64 `yaml:"min_value"`
	MaxValue              *float64 `yaml:"max_value"`
	FieldType             string   `yaml:"field_type"`
	MaxAmount             *float64 `yaml:"max_amount"`
	MinAmount             *float64 `yaml:"min_amount"`
	MinExclusive          bool     `yaml:"min_exclusive"`
	PerPersonMaxAmount    *float64 `yaml:"per_person_max_amount"`
	PerPersonMinAmount    *float64 `yaml:"per_person_min_amount"`
	PerPersonMinExclusive bool     `yaml:"per_person_min_exclusive"`
	FutureDatesNotAllowed bool     `yaml:"future_dates_not_allowed"`
	SubmissionWindowDays  int      `yaml:"submission_window_days"`
	WeekendNotAllowed     bool     `yaml:"weekend_expenses_not_allowed"`
}

// yamlAmountConstraints mirrors the amount_constraints block.
type yamlAmountConstraints struct {
	MaxAmountJPY          *float64 `yaml:"max_amount_jpy"`
	PerPersonMaxAmountJPY *float64 `yaml:"per_person_max_amount_jpy"`
	PerPersonMinAmountJPY *float64 `yaml:"per_person_min_amount_jpy"`
	PerPersonMinExclusive bool     `yaml:"per_person_min_exclusive"`
	ItemUnitMaxAmountJPY  *float64 `yaml:"item_unit_max_amount_jpy"`
	ItemUnitMinAmountJPY  *float64 `yaml:"item_unit_min_amount_jpy"`
	ItemUnitMinInclusive  *bool    `yaml:"item_unit_min_inclusive"`
}

// yamlDynamicFormula mirrors the dynamic_amount_formula block.
type yamlDynamicFormula struct {
	Type          string  `yaml:"type"`
	UnitAmountJPY float64 `yaml:"unit_amount_jpy"`
	Variable      string  `yaml:"variable"`
}

// yamlFrequency mirrors the frequency_constraints block.
type yamlFrequency struct {
	MaxOccurrencesPerPeriod *struct {
		Scope      string `yaml:"scope"`
		Count      int    `yaml:"count"`
		Period     string `yaml:"period"`
		ScopeField string `yaml:"scope_field"`
	} `yaml:"max_occurrences_per_period"`
}

// yamlDateValidation mirrors the date_validation block.
type yamlDateValidation struct {
	FieldName             string `yaml:"field_name"`
	FutureDatesNotAllowed bool   `yaml:"future_dates_not_allowed"`
	SubmissionWindowDays  int    `yaml:"submission_window_days"`
	WeekendNotAllowed     bool   `yaml:"weekend_expenses_not_allowed"`
}

// yamlAccommodation mirrors an accommodation_dates block when it is a
// mapping (it may also be a bare boolean).
type yamlAccommodation struct {
	CheckInField  string `yaml:"check_in_field"`
	CheckOutField string `yaml:"check_out_field"`
}

// builder constructs AST nodes from intermediate YAML structures.
// It collects all structural errors rather than stopping at the first.
type builder struct {
	sourcePath string
	maxDepth   int
	errors     *ErrorList
}

// newBuilder creates a new AST builder for the given source file.
func newBuilder(sourcePath string, maxDepth int) *builder {
	return &builder{
		sourcePath: sourcePath,
		maxDepth:   maxDepth,
		errors:     NewErrorList(),
	}
}

// loc builds an ast.Location from a YAML node.
func (b *builder) loc(node *yaml.Node) ast.Location {
	if node == nil {
		return ast.Location{File: b.sourcePath}
	}
	return ast.Location{File: b.sourcePath, Line: node.Line, Column: node.Column}
}

// buildRulebook transforms a yamlRulebook into an ast.Rulebook.
func (b *builder) buildRulebook(yrb *yamlRulebook) (*ast.Rulebook, error) {
	rb := &ast.Rulebook{
		Version:    yrb.Version,
		Clauses:    make([]*ast.Clause, 0, len(yrb.Rules)),
		SourceFile: b.sourcePath,
	}

	seen := make(map[string]bool, len(yrb.Rules))
	for i := range yrb.Rules {
		clause := b.buildClause(&yrb.Rules[i], i)
		if clause == nil {
			continue
		}
		if seen[clause.ClauseID] {
			b.errors.Add(ErrorTypeStructural,
				fmt.Sprintf("duplicate clause ID %q", clause.ClauseID),
				clause.Location)
			continue
		}
		seen[clause.ClauseID] = true
		rb.Clauses = append(rb.Clauses, clause)
	}

	if b.errors.HasErrors() {
		return nil, b.errors
	}
	return rb, nil
}

// buildClause transforms a yamlClause into an ast.Clause. The rule tree
// root is a group whose children are the implicit required-field rules
// followed by the validation rules in declaration order.
func (b *builder) buildClause(yc *yamlClause, index int) *ast.Clause {
	if yc.ClauseID == "" {
		b.errors.Add(ErrorTypeStructural,
			fmt.Sprintf("clause at index %d has no clause_id", index),
			ast.Location{File: b.sourcePath})
		return nil
	}

	clause := &ast.Clause{
		ClauseID:   yc.ClauseID,
		Category:   yc.ExpenseCategory,
		Fields:     make([]*ast.FieldDef, 0, len(yc.RequiredFields.Inputs)),
		SourceFile: b.sourcePath,
	}

	root := &ast.RuleNode{Kind: ast.KindGroup}

	for i := range yc.RequiredFields.Inputs {
		field := b.buildFieldDef(&yc.RequiredFields.Inputs[i])
		clause.Fields = append(clause.Fields, field)
		if field.Required {
			root.Children = append(root.Children, b.requiredNode(field))
		}
	}

	root.Children = append(root.Children, b.buildValidationRules(&yc.ValidationRules, 0)...)
	clause.Root = root
	return clause
}

// buildFieldDef transforms a yamlFieldDef into an ast.FieldDef.
func (b *builder) buildFieldDef(yf *yamlFieldDef) *ast.FieldDef {
	fieldType := yf.Type
	if fieldType == "" {
		fieldType = "string"
	}
	return &ast.FieldDef{
		Key:           yf.Key,
		Type:          fieldType,
		Required:      yf.Required,
		AllowedValues: yf.AllowedValues,
		Label:         yf.Label,
		Description:   yf.Description,
		Purpose:       yf.Purpose,
		Metadata:      yf.Metadata,
		Location:      b.loc(yf.node),
	}
}

// requiredNode builds the implicit required rule for a declared field.
// Field metadata markers select a specific missing-field reason code.
func (b *builder) requiredNode(field *ast.FieldDef) *ast.RuleNode {
	constraints := &ast.Constraints{QualifyCode: true}
	for _, m := range metadataReasonCodes {
		if field.Metadata[m.metaKey] {
			constraints.ReasonCode = m.reasonCode
			break
		}
	}
	return &ast.RuleNode{
		Kind:        ast.KindRequired,
		Field:       field.Key,
		Constraints: constraints,
		Location:    field.Location,
	}
}

// buildValidationRules walks a validation_rules mapping in declaration
// order and produces the corresponding rule nodes. Nested mappings that are
// not recognized blocks recurse into group nodes, so arbitrarily nested
// rulebooks flatten deterministically.
func (b *builder) buildValidationRules(node *yaml.Node, depth int) []*ast.RuleNode {
	if depth > b.maxDepth {
		b.errors.Add(ErrorTypeStructural,
			fmt.Sprintf("validation rules nested deeper than %d levels", b.maxDepth),
			b.loc(node))
		return nil
	}

	var nodes []*ast.RuleNode
	mappingPairs(node, func(key, value *yaml.Node) {
		name, ok := scalarString(key)
		if !ok {
			return
		}
		if built := b.buildValidationEntry(name, value, node, depth); built != nil {
			nodes = append(nodes, built)
		}
	})
	return nodes
}

// buildValidationEntry builds the rule node for one validation_rules entry.
// Returns nil for entries that carry no rule of their own (companion keys
// like allowed_currencies, or unrecognized scalars).
func (b *builder) buildValidationEntry(name string, value, parent *yaml.Node, depth int) *ast.RuleNode {
	switch name {
	case "amount_constraints":
		return b.buildAmountConstraints(value)

	case "max_amount":
		if v, ok := scalarFloat(value); ok {
			return &ast.RuleNode{
				Kind:        ast.KindAmountConstraint,
				Field:       "amount",
				Constraints: &ast.Constraints{MaxAmountJPY: &v},
				Location:    b.loc(value),
			}
		}
		return nil

	case "dynamic_amount_formula":
		return b.buildDynamicFormula(value)

	case "frequency_constraints":
		return b.buildFrequencyConstraints(value)

	case "date_validation":
		return b.buildDateValidation(value)

	case "accommodation_dates":
		return b.buildAccommodationDates(value)

	case "currency_validation":
		if !scalarBool(value) {
			return nil
		}
		return b.allowedSetNode("currency", "currencies", "allowed_currencies", parent, value)

	case "receipt_type_validation":
		if !scalarBool(value) {
			return nil
		}
		return b.allowedSetNode("receipt_type", "receipt_types", "allowed_receipt_types", parent, value)

	case "allowed_currencies", "allowed_receipt_types":
		// Companion keys, consumed by their *_validation entries.
		return nil
	}

	if req, ok := booleanRequirements[name]; ok {
		if !scalarBool(value) {
			return nil
		}
		return &ast.RuleNode{
			Kind:        ast.KindRequired,
			Field:       req.field,
			Constraints: &ast.Constraints{ReasonCode: req.reasonCode},
			Location:    b.loc(value),
		}
	}

	if value.Kind != yaml.MappingNode {
		return nil
	}

	// A mapping with field_name and type is an explicitly typed rule.
	if hasMappingKey(value, "field_name") && hasMappingKey(value, "type") {
		return b.buildTypedRule(value)
	}

	// Any other nested mapping recurses; its rules keep declaration order
	// inside a group node.
	children := b.buildValidationRules(value, depth+1)
	if len(children) == 0 {
		return nil
	}
	return &ast.RuleNode{
		Kind:     ast.KindGroup,
		Children: children,
		Location: b.loc(value),
	}
}

// buildAmountConstraints builds the amount_constraint node for the
// clause-level amount_constraints block.
func (b *builder) buildAmountConstraints(value *yaml.Node) *ast.RuleNode {
	var yac yamlAmountConstraints
	if err := value.Decode(&yac); err != nil {
		b.errors.Add(ErrorTypeStructural,
			fmt.Sprintf("invalid amount_constraints: %v", err), b.loc(value))
		return nil
	}
	return &ast.RuleNode{
		Kind:  ast.KindAmountConstraint,
		Field: "amount",
		Constraints: &ast.Constraints{
			MaxAmountJPY:          yac.MaxAmountJPY,
			PerPersonMaxAmountJPY: yac.PerPersonMaxAmountJPY,
			PerPersonMinAmountJPY: yac.PerPersonMinAmountJPY,
			PerPersonMinExclusive: yac.PerPersonMinExclusive,
			ItemUnitMaxAmountJPY:  yac.ItemUnitMaxAmountJPY,
			ItemUnitMinAmountJPY:  yac.ItemUnitMinAmountJPY,
			ItemUnitMinInclusive:  yac.ItemUnitMinInclusive,
		},
		Location: b.loc(value),
	}
}

// buildDynamicFormula builds a per-unit cap business rule from a
// dynamic_amount_formula block.
func (b *builder) buildDynamicFormula(value *yaml.Node) *ast.RuleNode {
	var ydf yamlDynamicFormula
	if err := value.Decode(&ydf); err != nil {
		b.errors.Add(ErrorTypeStructural,
			fmt.Sprintf("invalid dynamic_amount_formula: %v", err), b.loc(value))
		return nil
	}

	variable := ydf.Variable
	if variable == "" {
		switch ydf.Type {
		case "per_night":
			variable = "num_nights"
		case "per_person":
			variable = "num_people"
		}
	}

	return &ast.RuleNode{
		Kind:  ast.KindBusinessRule,
		Field: "amount",
		Constraints: &ast.Constraints{
			Formula: &ast.Formula{
				Kind:          ast.FormulaPerUnitCap,
				UnitAmountJPY: ydf.UnitAmountJPY,
				Variable:      variable,
			},
		},
		Location: b.loc(value),
	}
}

// buildFrequencyConstraints builds a frequency-limit business rule.
func (b *builder) buildFrequencyConstraints(value *yaml.Node) *ast.RuleNode {
	var yf yamlFrequency
	if err := value.Decode(&yf); err != nil {
		b.errors.Add(ErrorTypeStructural,
			fmt.Sprintf("invalid frequency_constraints: %v", err), b.loc(value))
		return nil
	}
	if yf.MaxOccurrencesPerPeriod == nil {
		return nil
	}

	mo := yf.MaxOccurrencesPerPeriod
	scopeField := mo.ScopeField
	if scopeField == "" {
		switch mo.Scope {
		case "department":
			scopeField = "department_code"
		default:
			scopeField = "employee_id"
		}
	}

	return &ast.RuleNode{
		Kind:  ast.KindBusinessRule,
		Field: scopeField,
		Constraints: &ast.Constraints{
			Formula: &ast.Formula{
				Kind:     ast.FormulaFrequencyLimit,
				Variable: scopeField,
				Scope:    mo.Scope,
				Count:    mo.Count,
				Period:   mo.Period,
			},
		},
		Location: b.loc(value),
	}
}

// buildDateValidation builds a date_validation node.
func (b *builder) buildDateValidation(value *yaml.Node) *ast.RuleNode {
	var ydv yamlDateValidation
	if err := value.Decode(&ydv); err != nil {
		b.errors.Add(ErrorTypeStructural,
			fmt.Sprintf("invalid date_validation: %v", err), b.loc(value))
		return nil
	}

	field := ydv.FieldName
	if field == "" {
		field = "recognized_at"
	}

	return &ast.RuleNode{
		Kind:  ast.KindDateValidation,
		Field: field,
		Constraints: &ast.Constraints{
			FutureDatesNotAllowed: ydv.FutureDatesNotAllowed,
			SubmissionWindowDays:  ydv.SubmissionWindowDays,
			WeekendNotAllowed:     ydv.WeekendNotAllowed,
		},
		Location: b.loc(value),
	}
}

// buildAccommodationDates builds an accommodation_dates node. The block is
// either a bare boolean or a mapping with custom field names.
func (b *builder) buildAccommodationDates(value *yaml.Node) *ast.RuleNode {
	if value.Kind == yaml.ScalarNode && !scalarBool(value) {
		return nil
	}

	checkIn, checkOut := "check_in_date", "check_out_date"
	if value.Kind == yaml.MappingNode {
		var ya yamlAccommodation
		if err := value.Decode(&ya); err == nil {
			if ya.CheckInField != "" {
				checkIn = ya.CheckInField
			}
			if ya.CheckOutField != "" {
				checkOut = ya.CheckOutField
			}
		}
	}

	return &ast.RuleNode{
		Kind:  ast.KindAccommodationDates,
		Field: checkIn,
		Constraints: &ast.Constraints{
			AllowedValues: []string{checkIn, checkOut},
		},
		Location: b.loc(value),
	}
}

// allowedSetNode builds an allowed-set business rule for a field. An
// explicit companion key (e.g. allowed_currencies) on the same mapping
// overrides the named shared-configuration set.
func (b *builder) allowedSetNode(field, set, companionKey string, parent, value *yaml.Node) *ast.RuleNode {
	var allowed []string
	mappingPairs(parent, func(key, val *yaml.Node) {
		if name, ok := scalarString(key); ok && name == companionKey {
			allowed = stringSlice(val)
		}
	})

	return &ast.RuleNode{
		Kind:  ast.KindBusinessRule,
		Field: field,
		Constraints: &ast.Constraints{
			AllowedValues: allowed,
			Formula: &ast.Formula{
				Kind:     ast.FormulaAllowedSet,
				Variable: field,
				Set:      set,
			},
		},
		Location: b.loc(value),
	}
}

// buildTypedRule builds a rule node from an explicitly typed mapping.
// Unknown type strings are preserved as-is: the interpreter reports them as
// malformed rules instead of the parser rejecting the document.
func (b *builder) buildTypedRule(value *yaml.Node) *ast.RuleNode {
	var yt yamlTypedRule
	if err := value.Decode(&yt); err != nil {
		b.errors.Add(ErrorTypeStructural,
			fmt.Sprintf("invalid typed rule: %v", err), b.loc(value))
		return nil
	}

	constraints := &ast.Constraints{
		ReasonCode:            yt.ReasonCode,
		Pattern:               yt.Pattern,
		AllowedValues:         yt.AllowedValues,
		FormatType:            yt.FormatType,
		MinValue:              yt.MinValue,
		MaxValue:              yt.MaxValue,
		FieldType:             yt.FieldType,
		MaxAmountJPY:          yt.MaxAmount,
		PerPersonMaxAmountJPY: yt.PerPersonMaxAmount,
		PerPersonMinAmountJPY: yt.PerPersonMinAmount,
		PerPersonMinExclusive: yt.PerPersonMinExclusive,
		FutureDatesNotAllowed: yt.FutureDatesNotAllowed,
		SubmissionWindowDays:  yt.SubmissionWindowDays,
		WeekendNotAllowed:     yt.WeekendNotAllowed,
	}
	if yt.MinAmount != nil {
		constraints.ItemUnitMinAmountJPY = yt.MinAmount
		inclusive := !yt.MinExclusive
		constraints.ItemUnitMinInclusive = &inclusive
	}

	return &ast.RuleNode{
		Kind:        ast.RuleKind(yt.Type),
		Field:       yt.FieldName,
		Constraints: constraints,
		Location:    b.loc(value),
	}
}

// hasMappingKey reports whether the mapping node declares the given key.
func hasMappingKey(node *yaml.Node, key string) bool {
	found := false
	mappingPairs(node, func(k, _ *yaml.Node) {
		if name, ok := scalarString(k); ok && name == key {
			found = true
		}
	})
	return found
}
