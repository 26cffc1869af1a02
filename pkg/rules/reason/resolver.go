package reason

// CodeContext pairs an evaluation reason code with its violation-local
// variables. Local variables take precedence over the merged clause
// variables during template rendering.
type CodeContext struct {
	Code      string
	Variables map[string]any
}

// ResolvedReason is one standardized reason: the taxonomy entry with its
// templates rendered against the evaluation's variables.
type ResolvedReason struct {
	Code         string `json:"code"`
	Label        string `json:"label"`
	Description  string `json:"description"`
	Severity     string `json:"severity"`
	SuggestedFix string `json:"suggested_fix,omitempty"`

	// RequiredVariables lists the placeholder identifiers the entry's
	// templates expect, as declared in the taxonomy.
	RequiredVariables []string `json:"required_variables"`

	// MissingVariables lists placeholders left unfilled in the rendered
	// templates. The gap stays visible in the text; this annotates it.
	MissingVariables []string `json:"missing_variables,omitempty"`
}

// Resolution is the resolver's aggregate output for one evaluation.
type Resolution struct {
	Reasons      []ResolvedReason
	TotalIssues  int
	ErrorCount   int
	WarningCount int
}

// Resolver turns evaluation reason codes into standardized reasons using
// a loaded taxonomy. A code the taxonomy does not declare is a deployment
// defect and resolves to a hard error.
type Resolver struct {
	taxonomy *Taxonomy
}

// NewResolver creates a resolver over the taxonomy.
func NewResolver(t *Taxonomy) *Resolver {
	return &Resolver{taxonomy: t}
}

// KnownCode reports whether the taxonomy declares the code's base. The
// interpreter consults this to gate rulebook-declared reason codes.
func (r *Resolver) KnownCode(code string) bool {
	return r.taxonomy.Has(code)
}

// Taxonomy returns the resolver's taxonomy.
func (r *Resolver) Taxonomy() *Taxonomy {
	return r.taxonomy
}

// ResolveCodes resolves bare codes with no violation-local variables.
func (r *Resolver) ResolveCodes(codes []string, variables map[string]any) (*Resolution, error) {
	contexts := make([]CodeContext, len(codes))
	for i, code := range codes {
		contexts[i] = CodeContext{Code: code}
	}
	return r.Resolve(contexts, variables)
}

// Resolve maps each code to its taxonomy entry and renders the entry's
// templates. Rendering precedence is violation-local variables over the
// passed clause variables; field-qualified codes additionally inject the
// field name from the qualifier when nothing more specific is available.
func (r *Resolver) Resolve(contexts []CodeContext, variables map[string]any) (*Resolution, error) {
	res := &Resolution{}

	for _, cc := range contexts {
		entry, ok := r.taxonomy.Get(cc.Code)
		if !ok {
			base, _ := SplitCode(cc.Code)
			return nil, &TaxonomyError{Code: base, Message: "code not declared in taxonomy"}
		}

		merged := mergeVariables(variables, cc)

		description, missing := renderTemplate(entry.Description, merged)
		fix, fixMissing := renderTemplate(entry.SuggestedFix, merged)
		missing = appendUnique(missing, fixMissing...)

		required := entry.Variables
		if required == nil {
			required = []string{}
		}

		res.Reasons = append(res.Reasons, ResolvedReason{
			Code:              cc.Code,
			Label:             entry.Label,
			Description:       description,
			Severity:          entry.Severity,
			SuggestedFix:      fix,
			RequiredVariables: required,
			MissingVariables:  missing,
		})

		switch entry.Severity {
		case SeverityWarning:
			res.WarningCount++
		default:
			res.ErrorCount++
		}
	}

	res.TotalIssues = len(res.Reasons)
	return res, nil
}

// defaultFieldContext explains a field-qualified reason when the
// evaluation supplied no context of its own.
const defaultFieldContext = "This field is required for proper expense validation and processing."

// mergeVariables layers the code's local variables over the clause
// variables and fills the field-derived defaults.
func mergeVariables(variables map[string]any, cc CodeContext) map[string]any {
	merged := make(map[string]any, len(variables)+len(cc.Variables)+2)
	for k, v := range variables {
		merged[k] = v
	}
	for k, v := range cc.Variables {
		merged[k] = v
	}

	if _, field := SplitCode(cc.Code); field != "" {
		if name, ok := merged["field_name"].(string); !ok || name == "" || name == "unknown" {
			merged["field_name"] = field
		}
		if _, ok := merged["field_context"]; !ok {
			merged["field_context"] = defaultFieldContext
		}
	}

	return merged
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
