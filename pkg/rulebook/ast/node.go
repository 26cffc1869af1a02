package ast

// RuleKind identifies the type of check a rule node performs.
// The set is closed: the interpreter matches exhaustively over these values
// and reports anything else as a malformed rule.
type RuleKind string

const (
	// KindRequired fails when the target field is absent or empty.
	KindRequired RuleKind = "required"

	// KindFormat validates a value against a pattern or allowed-value set.
	KindFormat RuleKind = "format"

	// KindRange validates a numeric value against min/max bounds.
	KindRange RuleKind = "range"

	// KindDateValidation validates date parseability and date policies
	// (future dates, submission window, weekends).
	KindDateValidation RuleKind = "date_validation"

	// KindBusinessRule evaluates one of the closed set of declarative
	// formulas (per-unit caps, frequency limits, allowed sets).
	KindBusinessRule RuleKind = "business_rule"

	// KindFieldType validates the submitted value's primitive type.
	KindFieldType RuleKind = "field_type"

	// KindAmountConstraint validates a monetary amount against the
	// clause's amount bounds with smart-override resolution.
	KindAmountConstraint RuleKind = "amount_constraint"

	// KindAccommodationDates validates a check-in/check-out date pair.
	KindAccommodationDates RuleKind = "accommodation_dates"

	// KindGroup has no check of its own; it evaluates its children in
	// declaration order and flattens their violations.
	KindGroup RuleKind = "group"
)

// RuleNode represents a single node in a clause's rule tree.
// Leaf nodes perform one check; group nodes contain ordered children.
// Trees are finite and acyclic by construction: the parser builds them
// bottom-up from the rulebook document and never links existing nodes.
type RuleNode struct {
	// Kind is the type of check this node performs.
	Kind RuleKind

	// Field is the target field path. Optional for group nodes and for
	// kinds that address fixed field pairs (accommodation_dates).
	Field string

	// Constraints holds the kind-specific parameters. Nil is valid for
	// group nodes; for leaf kinds a missing required parameter degrades
	// to a malformed-rule violation at evaluation time, not a panic.
	Constraints *Constraints

	// Children are the ordered child nodes. Only populated for group nodes.
	Children []*RuleNode

	// Location is the source location, for diagnostics.
	Location Location
}

// IsGroup returns true if this node is a group of child rules.
func (n *RuleNode) IsGroup() bool {
	return n.Kind == KindGroup
}

// LeafCount returns the number of leaf rule nodes in the tree rooted at n.
// The interpreter's violation count for a single node is bounded by the
// checks that node declares, so LeafCount bounds total tree visits.
func (n *RuleNode) LeafCount() int {
	if n == nil {
		return 0
	}
	if !n.IsGroup() {
		return 1
	}
	count := 0
	for _, child := range n.Children {
		count += child.LeafCount()
	}
	return count
}

// Walk visits n and all its descendants depth-first in declaration order.
// The walk stops early if fn returns false.
func (n *RuleNode) Walk(fn func(*RuleNode) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Constraints holds the kind-specific parameters of a rule node.
// Only the fields relevant to the node's kind are populated; pointer fields
// distinguish "not declared" from zero values.
type Constraints struct {
	// ReasonCode overrides the default reason code emitted on failure.
	// Used by required rules whose field metadata maps to a specific
	// taxonomy entry (e.g. missing_receipt_images).
	ReasonCode string

	// QualifyCode appends the field name to the emitted reason code
	// ("missing_field:route"). Set for required rules derived from field
	// declarations; requirement rules named after their field (e.g.
	// receipt_required) emit the bare code.
	QualifyCode bool

	// Pattern is a regular expression the value must match (format).
	Pattern string

	// AllowedValues is the closed value set for format/enum checks.
	AllowedValues []string

	// FormatType selects the named format check ("date", "currency", "enum").
	FormatType string

	// MinValue and MaxValue bound numeric values (range).
	MinValue *float64
	MaxValue *float64

	// Amount bounds (amount_constraint). All amounts are JPY.
	MaxAmountJPY          *float64
	PerPersonMaxAmountJPY *float64
	PerPersonMinAmountJPY *float64
	PerPersonMinExclusive bool
	ItemUnitMaxAmountJPY  *float64
	ItemUnitMinAmountJPY  *float64
	// ItemUnitMinInclusive defaults to true when the bound is declared.
	ItemUnitMinInclusive *bool

	// Date policies (date_validation).
	FutureDatesNotAllowed bool
	SubmissionWindowDays  int
	WeekendNotAllowed     bool

	// FieldType is the declared primitive type for field_type checks
	// ("string", "number", "integer", "money", "boolean", "date", "enum").
	FieldType string

	// Formula is the declarative business-rule formula (business_rule).
	Formula *Formula
}

// FormulaKind identifies one of the closed set of business-rule formula
// shapes. Formulas are declarative parameters, never arbitrary code.
type FormulaKind string

const (
	// FormulaPerUnitCap caps the amount at UnitAmountJPY multiplied by a
	// submitted variable (e.g. 15000 JPY per night times num_nights).
	FormulaPerUnitCap FormulaKind = "per_unit_cap"

	// FormulaFrequencyLimit caps how often a claim may occur per scope
	// within a period window (e.g. 4 times per person per month).
	FormulaFrequencyLimit FormulaKind = "frequency_limit"

	// FormulaAllowedSet checks a field value against a named allowed set
	// from the shared configuration (currencies, receipt types).
	FormulaAllowedSet FormulaKind = "allowed_set"
)

// Formula is a declarative business-rule formula.
type Formula struct {
	// Kind selects the formula shape.
	Kind FormulaKind

	// UnitAmountJPY is the per-unit cap amount (per_unit_cap).
	UnitAmountJPY float64

	// Variable is the submitted field the unit amount is multiplied by
	// (per_unit_cap) or the field holding the scope identifier
	// (frequency_limit, e.g. employee_id).
	Variable string

	// Scope is the frequency-limit grouping ("person", "department").
	Scope string

	// Count is the maximum occurrences per period (frequency_limit).
	Count int

	// Period is the frequency window ("day", "week", "month", "year").
	Period string

	// Set names the shared-config allowed set (allowed_set), e.g.
	// "currencies". AllowedValues on the node override the named set.
	Set string
}
