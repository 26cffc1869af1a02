// Package engine implements the rule interpreter.
//
// The Interpreter walks a clause's rule tree depth-first in declaration
// order and emits an ordered list of Violations. Each rule kind has one
// evaluator in a static table; evaluation of a node is a pure function of
// the node's constraints, the submitted inputs, and the shared
// configuration. Evaluation never raises for malformed input: an
// unrecognized or incomplete rule degrades to a malformed_rule violation
// so one bad rule cannot block the rest of the clause.
//
// # Basic Usage
//
//	interp := engine.NewInterpreter(engine.Config{})
//	eval := interp.Evaluate(ctx, clause, inputs)
//	if eval.Status == engine.StatusNG {
//	    for _, v := range eval.Violations {
//	        fmt.Println(v.QualifiedCode())
//	    }
//	}
//
// Evaluation is synchronous, performs no I/O, and touches no mutable
// shared state; concurrent calls over the same clause need no locking.
// The one exception is frequency limits, which consult an injected
// OccurrenceCounter; when none is configured those rules are skipped.
package engine
