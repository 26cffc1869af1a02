// Package rules is the validation entry point: it ties the loaded
// rulebook, the rule interpreter, and the reason taxonomy into a single
// Validate call that turns a clause ID and submitted inputs into a
// complete result with standardized reasons and suggested fixes.
package rules
