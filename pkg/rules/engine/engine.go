package engine

import (
	"context"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

// Interpreter evaluates clause rule trees against submitted inputs.
// It is safe for concurrent use; all per-call state lives on the stack.
type Interpreter struct {
	config Config
}

// NewInterpreter creates an interpreter with the given configuration.
func NewInterpreter(cfg Config) *Interpreter {
	return &Interpreter{config: cfg.withDefaults()}
}

// evaluator evaluates one leaf rule node. Implementations are pure
// functions of the node, the inputs, and the shared configuration; they
// return zero or more violations and never abort the walk.
type evaluator func(ec *evalContext, node *ast.RuleNode) []Violation

// evaluators is the static kind-to-evaluator table. New rule kinds are
// added here, not by branching inside the walk.
var evaluators = map[ast.RuleKind]evaluator{
	ast.KindRequired:           evalRequired,
	ast.KindFormat:             evalFormat,
	ast.KindRange:              evalRange,
	ast.KindFieldType:          evalFieldType,
	ast.KindAmountConstraint:   evalAmountConstraint,
	ast.KindDateValidation:     evalDateValidation,
	ast.KindAccommodationDates: evalAccommodationDates,
	ast.KindBusinessRule:       evalBusinessRule,
}

// evalContext carries per-call state through the tree walk.
type evalContext struct {
	ctx    context.Context
	interp *Interpreter
	clause *ast.Clause
	inputs map[string]any
}

func (ec *evalContext) config() Config {
	return ec.interp.config
}

func (ec *evalContext) shared() *SharedConfig {
	return ec.interp.config.Shared
}

// knownCode reports whether a rulebook-declared reason code is resolvable.
func (ec *evalContext) knownCode(code string) bool {
	if ec.interp.config.KnownCode == nil {
		return true
	}
	return ec.interp.config.KnownCode(code)
}

// Evaluate interprets the clause's rule tree against the inputs. The
// returned violations preserve rule declaration order (pre-order,
// depth-first); status is NG exactly when any violation was emitted.
// An empty or nil rule tree yields OK.
func (i *Interpreter) Evaluate(ctx context.Context, clause *ast.Clause, inputs map[string]any) *Evaluation {
	if inputs == nil {
		inputs = map[string]any{}
	}

	ec := &evalContext{
		ctx:    ctx,
		interp: i,
		clause: clause,
		inputs: inputs,
	}

	var violations []Violation
	if clause != nil && clause.Root != nil {
		violations = ec.walk(clause.Root)
	}

	status := StatusOK
	if len(violations) > 0 {
		status = StatusNG
	}

	return &Evaluation{Status: status, Violations: violations}
}

// walk evaluates a node and its descendants depth-first, flattening child
// violations in declaration order.
func (ec *evalContext) walk(node *ast.RuleNode) []Violation {
	if node == nil {
		return nil
	}

	if node.IsGroup() {
		var violations []Violation
		for _, child := range node.Children {
			violations = append(violations, ec.walk(child)...)
		}
		return violations
	}

	eval, ok := evaluators[node.Kind]
	if !ok {
		return []Violation{malformedRule(node, "unrecognized rule kind")}
	}
	if node.Constraints == nil {
		return []Violation{malformedRule(node, "missing constraints")}
	}
	return eval(ec, node)
}

// malformedRule builds the synthetic violation for a rule the interpreter
// cannot evaluate. The bad rule is reported instead of blocking siblings.
func malformedRule(node *ast.RuleNode, detail string) Violation {
	return Violation{
		Code:  "malformed_rule",
		Field: node.Field,
		Variables: map[string]any{
			"rule_kind": string(node.Kind),
			"detail":    detail,
		},
	}
}
