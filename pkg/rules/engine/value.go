package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the wire format for all date fields.
const dateLayout = "2006-01-02"

// defaultPlaceholder is the sentinel demo UIs submit for untouched fields.
// It counts as empty.
const defaultPlaceholder = "(Default)"

// isEmpty reports whether a submitted value counts as absent for required
// checks: nil, empty or whitespace-only string, the default placeholder,
// or an empty sequence.
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed == "" || trimmed == defaultPlaceholder
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// toFloat64 coerces a submitted value to a float64. Strings are parsed;
// booleans and other types do not coerce.
func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// isWholeNumber reports whether a coerced numeric value has no fractional
// part. JSON decoding yields float64 for every number, so integer checks
// go through this.
func isWholeNumber(f float64) bool {
	return f == float64(int64(f))
}

// toString renders a submitted value for comparison against allowed sets.
// ScopeValue normalizes a frequency-scope field value to the string key
// occurrences are counted under. Recording and counting must agree on it.
func ScopeValue(value any) string {
	return toString(value)
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// parseDate parses a date field value in the wire format.
func parseDate(value any) (time.Time, bool) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
