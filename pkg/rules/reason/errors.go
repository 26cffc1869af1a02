package reason

import "fmt"

// TaxonomyError reports a defect in the reason taxonomy: an unloadable
// file, a malformed entry, or an evaluation code the taxonomy does not
// declare. Unknown codes are a deployment defect, never silently dropped.
type TaxonomyError struct {
	Code    string
	Message string
	Cause   error
}

func (e *TaxonomyError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("reason taxonomy: code %q: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("reason taxonomy: %s", e.Message)
}

func (e *TaxonomyError) Unwrap() error {
	return e.Cause
}
