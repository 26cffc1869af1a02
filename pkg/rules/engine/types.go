package engine

// Status is the overall verdict of a clause evaluation.
type Status string

const (
	// StatusOK indicates the submission passed every rule.
	StatusOK Status = "OK"

	// StatusNG indicates at least one violation was emitted.
	StatusNG Status = "NG"
)

// Violation is a single constraint failure, prior to message rendering.
type Violation struct {
	// Code is the base reason code (e.g. "missing_field").
	Code string

	// Field is the field the violation concerns, if any. Non-empty Field
	// values produce field-qualified codes.
	Field string

	// Variables are violation-local template variables. They take
	// precedence over rule-specific overrides and global defaults when
	// the reason is rendered.
	Variables map[string]any
}

// QualifiedCode returns the field-qualified reason code. Codes qualify as
// "<base>:<field>" and must round-trip through reason.SplitCode.
func (v Violation) QualifiedCode() string {
	if v.Field == "" {
		return v.Code
	}
	return v.Code + ":" + v.Field
}

// Evaluation is the result of interpreting one clause against one set of
// inputs. Violations are ordered by rule declaration order.
type Evaluation struct {
	Status     Status
	Violations []Violation
}

// Codes returns the ordered qualified reason codes, deduplicated. The
// first occurrence of each code keeps its position.
func (e *Evaluation) Codes() []string {
	seen := make(map[string]bool, len(e.Violations))
	codes := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		code := v.QualifiedCode()
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}
