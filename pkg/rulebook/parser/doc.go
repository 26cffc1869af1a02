// Package parser provides YAML parsing and AST construction for rulebooks.
//
// The parser reads rulebook files (YAML format), validates syntax, and
// constructs clause ASTs that can be evaluated by the rule interpreter.
//
// # Basic Usage
//
// Parse a rulebook file:
//
//	parser := parser.NewParser()
//	rb, err := parser.Parse("rulebooks/expenses.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Loaded rulebook version:", rb.Version)
//	fmt.Println("Clauses:", rb.ClauseCount())
//
// Parse from memory:
//
//	data := []byte(`
//	version: "1.0"
//	rules:
//	  - clause_id: "TRAVEL_001"
//	    expense_category:
//	      en: "Domestic Travel"
//	    required_fields:
//	      inputs:
//	        - key: "amount"
//	          type: "money"
//	          required: true
//	    validation_rules:
//	      amount_constraints:
//	        max_amount_jpy: 50000
//	`)
//
//	rb, err := parser.ParseBytes(data, "memory://rulebook")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration
//
// Configure parser limits:
//
//	parser := parser.NewParser().
//	    WithMaxFileSize(5 * 1024 * 1024). // 5MB limit
//	    WithMaxDepth(15)                  // Max rule nesting depth
//
// # Parsing Stages
//
// The parser operates in two stages:
//
// 1. YAML Parsing: Read YAML and construct intermediate structures
//
// 2. AST Building: Transform intermediate structures to typed AST nodes
//
// Validation rules are walked as raw YAML mappings so their declaration
// order survives into the AST. The interpreter reports violations in that
// order, so order preservation here is load-bearing.
//
// Structural errors (missing clause IDs, duplicate clauses, excessive
// nesting) are collected into an ErrorList so a single parse reports
// everything wrong with a document.
package parser
