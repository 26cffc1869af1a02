package engine

import (
	"fmt"
)

// fieldContext generates an explanatory sentence for a missing field,
// keyed by the field's canonical key. Threshold sentences pull the current
// threshold and currency from the submission so the explanation matches
// the clause being evaluated.
func fieldContext(fieldKey string, inputs map[string]any, cfg *SharedConfig) string {
	currency := "JPY"
	if c, ok := inputs["currency"].(string); ok && c != "" {
		currency = c
	}
	threshold := cfg.Defaults.Threshold

	switch fieldKey {
	case "receipt_images", "receipt_image":
		return fmt.Sprintf("Receipts are required for all expenses above %v %s.", threshold, currency)
	case "pre_approval_id", "pre_approval":
		return fmt.Sprintf("Pre-approval is required for expenses above %v %s.", threshold, currency)
	case "invoice_registration_number", "invoice_number":
		return "Invoice numbers are required for tracking and compliance."
	case "project_code", "project":
		return "Project codes are required to ensure proper cost allocation."
	case "route", "route_info":
		return "Route information is required for travel expense validation."
	case "destination":
		return "Destination is required for travel expense validation."
	case "purpose":
		return "Business purpose is required for expense validation."
	case "payment_details", "payment_method":
		return "Payment details are required for expense tracking and reconciliation."
	case "num_nights", "nights_count":
		return "Number of nights is required for accommodation expense validation."
	case "num_people", "num_guests", "people_count":
		return "Number of people is required for expense validation."
	case "hotel_name":
		return "Hotel name is required for proper expense tracking and validation."
	case "check_in_date", "check_in":
		return "Check-in date is required to validate the accommodation period."
	case "check_out_date", "check_out":
		return "Check-out date is required to validate the accommodation period."
	case "hotel_location", "location":
		return "Hotel location is required for business trip validation and expense categorization."
	case "room_type":
		return "Room type helps categorize the accommodation expense properly."
	case "confirmation_number", "booking_reference":
		return "Booking confirmation number is required for expense verification."
	case "exchange_rate":
		return "Exchange rate is required for overseas expense conversion."
	case "approver", "approver_name":
		return fmt.Sprintf("Approver is required for expenses above %v %s.", threshold, currency)
	case "tax_information", "tax_details":
		return fmt.Sprintf("Tax details are required for expenses above %v %s.", threshold, currency)
	}

	return "This field is required for proper expense validation and processing."
}
