package reason

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// placeholderPattern matches {identifier} placeholders. Identifiers are
// snake_case names; anything else in braces is left untouched.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// renderTemplate substitutes {identifier} placeholders from the variable
// map. Placeholders with no value are kept literally so the gap is visible
// in the rendered message; their identifiers are returned for annotation.
func renderTemplate(template string, variables map[string]any) (string, []string) {
	var missing []string
	seen := make(map[string]bool)

	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := variables[name]
		if !ok || value == nil {
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
			return match
		}
		return formatValue(value)
	})

	return rendered, missing
}

// formatValue renders a variable value deterministically. Whole-numbered
// floats drop the fractional part so amounts read as "30000", not
// "30000.000000"; lists join with commas.
func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return formatValue(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(value)
}
