package rules

import (
	"ruler-hq/ruler/pkg/rulebook/ast"
)

// DemoOption is one selectable demo value for a clause input field.
type DemoOption struct {
	Label string `json:"label"`
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// BuildDemoOptions generates demo input options for every declared field
// of a clause, keyed by field key. Well-known fields get curated values;
// everything else falls back to type-generic samples.
func BuildDemoOptions(clause *ast.Clause) map[string][]DemoOption {
	options := make(map[string][]DemoOption, len(clause.Fields))
	for _, field := range clause.Fields {
		options[field.Key] = demoOptionsFor(field)
	}
	return options
}

func demoOptionsFor(field *ast.FieldDef) []DemoOption {
	switch field.Key {
	case "amount":
		return moneyOptions()
	case "currency":
		return []DemoOption{
			{Label: "JPY", Value: "JPY", Type: "string"},
			{Label: "USD", Value: "USD", Type: "string"},
		}
	case "recognized_at", "check_in_date", "check_out_date":
		return []DemoOption{
			{Label: "2024-01-15", Value: "2024-01-15", Type: "date"},
			{Label: "2024-01-20", Value: "2024-01-20", Type: "date"},
			{Label: "2024-02-01", Value: "2024-02-01", Type: "date"},
		}
	case "remark":
		return stringOptions("Business meeting with client", "Team lunch", "Office supplies purchase")
	case "payment_details":
		return enumOptions("manual", "corporate_card", "route_import")
	case "receipt_type":
		return enumOptions("e_doc", "paper")
	case "receipt_images":
		return []DemoOption{
			{Label: "receipt1.jpg", Value: "receipt1.jpg", Type: "file"},
			{Label: "receipt2.jpg", Value: "receipt2.jpg", Type: "file"},
			{Label: "No receipt", Value: "", Type: "file"},
		}
	case "invoice_registration_number":
		return []DemoOption{
			{Label: "T1234567890123", Value: "T1234567890123", Type: "string"},
			{Label: "T9876543210987", Value: "T9876543210987", Type: "string"},
			{Label: "No invoice number", Value: "", Type: "string"},
		}
	case "pre_approval_id":
		return stringOptions("PRE_001", "PRE_002")
	case "project_code":
		return stringOptions("PROJ_A", "PROJ_B")
	case "route", "destination":
		return stringOptions("Tokyo → Osaka", "Shinjuku → Shibuya")
	case "hotel_name":
		return stringOptions("Tokyo Grand Hotel", "Osaka Business Inn", "Kyoto Traditional Ryokan")
	case "hotel_location":
		return stringOptions("Tokyo, Shibuya", "Osaka, Namba", "Kyoto, Gion")
	case "room_type":
		return enumOptions("single", "double", "twin", "suite", "business", "economy")
	case "confirmation_number":
		return []DemoOption{
			{Label: "BK123456789", Value: "BK123456789", Type: "string"},
			{Label: "RES987654321", Value: "RES987654321", Type: "string"},
			{Label: "No confirmation", Value: "", Type: "string"},
		}
	case "exchange_rate":
		return []DemoOption{
			{Label: "1.00 (JPY)", Value: 1.00, Type: "decimal"},
			{Label: "0.0067 (USD to JPY)", Value: 0.0067, Type: "decimal"},
			{Label: "0.0059 (EUR to JPY)", Value: 0.0059, Type: "decimal"},
		}
	case "purpose":
		return stringOptions("Client meeting", "Business conference")
	case "participants_info":
		return stringOptions("John Doe (Company A), Jane Smith (Company B)", "Team members: 5 people")
	case "campaign_description":
		return stringOptions("Q1 Marketing Campaign", "User Survey Incentive")
	case "num_nights", "num_people", "num_guests":
		return []DemoOption{
			{Label: "1", Value: 1, Type: "integer"},
			{Label: "2", Value: 2, Type: "integer"},
			{Label: "3", Value: 3, Type: "integer"},
			{Label: "5", Value: 5, Type: "integer"},
		}
	}

	switch field.Type {
	case "integer":
		return []DemoOption{
			{Label: "1", Value: 1, Type: "integer"},
			{Label: "5", Value: 5, Type: "integer"},
			{Label: "10", Value: 10, Type: "integer"},
		}
	case "money":
		return moneyOptions()
	case "date":
		return []DemoOption{
			{Label: "2024-01-15", Value: "2024-01-15", Type: "date"},
			{Label: "2024-01-20", Value: "2024-01-20", Type: "date"},
		}
	case "enum":
		if len(field.AllowedValues) > 0 {
			return enumOptions(field.AllowedValues...)
		}
	case "file":
		return []DemoOption{
			{Label: "document1.pdf", Value: "document1.pdf", Type: "file"},
			{Label: "document2.pdf", Value: "document2.pdf", Type: "file"},
			{Label: "No file", Value: "", Type: "file"},
		}
	case "files":
		return []DemoOption{
			{Label: "doc1.pdf, doc2.pdf", Value: []string{"doc1.pdf", "doc2.pdf"}, Type: "files"},
			{Label: "Single file", Value: []string{"doc1.pdf"}, Type: "files"},
			{Label: "No files", Value: []string{}, Type: "files"},
		}
	}

	return []DemoOption{
		{Label: "Sample text", Value: "sample_text", Type: "string"},
		{Label: "Another example", Value: "another_example", Type: "string"},
	}
}

func moneyOptions() []DemoOption {
	return []DemoOption{
		{Label: "1000", Value: 1000, Type: "money"},
		{Label: "5000", Value: 5000, Type: "money"},
		{Label: "15000", Value: 15000, Type: "money"},
	}
}

func stringOptions(values ...string) []DemoOption {
	opts := make([]DemoOption, len(values))
	for i, v := range values {
		opts[i] = DemoOption{Label: v, Value: v, Type: "string"}
	}
	return opts
}

func enumOptions(values ...string) []DemoOption {
	opts := make([]DemoOption, len(values))
	for i, v := range values {
		opts[i] = DemoOption{Label: v, Value: v, Type: "enum"}
	}
	return opts
}
