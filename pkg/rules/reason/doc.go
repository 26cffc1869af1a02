// Package reason maps machine reason codes emitted by rule evaluation to
// standardized human-readable reasons.
//
// The taxonomy is a YAML table of reason entries (label, message template,
// severity, suggested fix) loaded at startup. Message templates carry
// {identifier} placeholders filled from the evaluation's variable map;
// a placeholder with no value stays literal in the output and is annotated,
// never silently dropped. Codes may be field-qualified with a colon suffix
// ("missing_field:route"); the qualifier selects the field the reason talks
// about while the base code selects the taxonomy entry.
package reason
