package engine

import (
	"time"

	"ruler-hq/ruler/pkg/rulebook/ast"
)

// evalDateValidation validates a present date field: parseability, future
// dates, the submission window, and weekend restrictions.
func evalDateValidation(ec *evalContext, node *ast.RuleNode) []Violation {
	value := ec.inputs[node.Field]
	if isEmpty(value) {
		return nil
	}

	expenseDate, ok := parseDate(value)
	if !ok {
		return []Violation{{
			Code: "invalid_date",
			Variables: map[string]any{
				"field_name": node.Field,
				"date":       value,
			},
		}}
	}

	c := node.Constraints
	now := ec.config().Clock()
	var violations []Violation

	if c.FutureDatesNotAllowed && expenseDate.After(now) {
		violations = append(violations, Violation{
			Code: "future_date_not_allowed",
			Variables: map[string]any{
				"date":         value,
				"current_date": now.Format(dateLayout),
			},
		})
	}

	window := c.SubmissionWindowDays
	if window <= 0 {
		window = ec.shared().Defaults.SubmissionWindowDays
	}
	if ageDays(now, expenseDate) > window {
		violations = append(violations, Violation{
			Code: "date_too_old",
			Variables: map[string]any{
				"date":              value,
				"submission_window": window,
			},
		})
	}

	if c.WeekendNotAllowed {
		weekday := expenseDate.Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			violations = append(violations, Violation{
				Code: "weekend_expense_restriction",
				Variables: map[string]any{
					"date": value,
				},
			})
		}
	}

	return violations
}

// ageDays returns the whole days elapsed from date to now. Future dates
// yield negative ages and never trip the submission window.
func ageDays(now, date time.Time) int {
	return int(now.Sub(date).Hours() / 24)
}

// evalAccommodationDates validates a check-in/check-out date pair. The
// check runs only when both dates are submitted; checkout must be strictly
// after checkin, so zero-night stays are rejected.
func evalAccommodationDates(ec *evalContext, node *ast.RuleNode) []Violation {
	checkInField, checkOutField := "check_in_date", "check_out_date"
	if pair := node.Constraints.AllowedValues; len(pair) == 2 {
		checkInField, checkOutField = pair[0], pair[1]
	}

	checkInValue := ec.inputs[checkInField]
	checkOutValue := ec.inputs[checkOutField]
	if isEmpty(checkInValue) || isEmpty(checkOutValue) {
		return nil
	}

	checkIn, inOK := parseDate(checkInValue)
	checkOut, outOK := parseDate(checkOutValue)
	if !inOK || !outOK {
		return []Violation{{
			Code: "invalid_date",
			Variables: map[string]any{
				"check_in_date":  checkInValue,
				"check_out_date": checkOutValue,
			},
		}}
	}

	if !checkOut.After(checkIn) {
		return []Violation{{
			Code: "invalid_accommodation_period",
			Variables: map[string]any{
				"check_in_date":  checkInValue,
				"check_out_date": checkOutValue,
			},
		}}
	}

	return nil
}
