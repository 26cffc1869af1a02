package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"ruler-hq/ruler/pkg/cli"
	"ruler-hq/ruler/pkg/rulebook/ast"
	"ruler-hq/ruler/pkg/rulebook/manager"
	"ruler-hq/ruler/pkg/rulebook/parser"
	"ruler-hq/ruler/pkg/rules/reason"
)

var lintFlags struct {
	rulebook string
	taxonomy string
	strict   bool
	format   string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rulebook and taxonomy files",
	Long: `Validate a rulebook file for syntax and semantic errors.

The lint command parses the rulebook and performs validation:
  - YAML syntax validation
  - Clause structure validation (IDs, fields, rule trees)
  - Duplicate clause ID detection
  - Reason code cross-check against the taxonomy (when --taxonomy is given)

Examples:
  # Lint a rulebook
  ruler lint --rulebook rulebook.yaml

  # Cross-check declared reason codes against the taxonomy
  ruler lint --rulebook rulebook.yaml --taxonomy reasons.yaml

  # Strict mode (warnings as errors)
  ruler lint --rulebook rulebook.yaml --strict

  # JSON output for CI/CD
  ruler lint --rulebook rulebook.yaml --format json`,
	RunE: lintRulebook,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.rulebook, "rulebook", "r", "", "rulebook file or directory to validate")
	lintCmd.Flags().StringVarP(&lintFlags.taxonomy, "taxonomy", "t", "", "taxonomy file to cross-check reason codes against")
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

type lintResult struct {
	Rulebook    string   `json:"rulebook"`
	ClauseCount int      `json:"clause_count"`
	RuleCount   int      `json:"rule_count"`
	Errors      []string `json:"errors,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

func lintRulebook(cmd *cobra.Command, args []string) error {
	if lintFlags.rulebook == "" {
		return fmt.Errorf("--rulebook must be specified")
	}

	result := lintResult{Rulebook: lintFlags.rulebook}

	loader := manager.NewRulebookLoader(manager.DefaultLoaderConfig(), parser.NewParser())
	clauses, err := loader.LoadClauses(lintFlags.rulebook)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return reportLint(cmd, result)
	}

	seen := make(map[string]bool)
	for _, clause := range clauses {
		result.ClauseCount++
		result.RuleCount += clause.RuleCount()

		if seen[clause.ClauseID] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("duplicate clause ID %q in %s", clause.ClauseID, clause.SourceFile))
		}
		seen[clause.ClauseID] = true

		if clause.Root == nil || len(clause.Root.Children) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("clause %s has no validation rules", clause.ClauseID))
		}
	}

	if lintFlags.taxonomy != "" {
		taxonomy, err := reason.LoadTaxonomy(lintFlags.taxonomy)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("taxonomy: %v", err))
			return reportLint(cmd, result)
		}
		for _, missing := range undeclaredCodes(clauses, taxonomy) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("reason code %q is not declared in the taxonomy", missing))
		}
	}

	return reportLint(cmd, result)
}

// undeclaredCodes returns rulebook reason code overrides that the taxonomy
// does not declare, sorted and deduplicated.
func undeclaredCodes(clauses []*ast.Clause, taxonomy *reason.Taxonomy) []string {
	missing := make(map[string]bool)
	for _, clause := range clauses {
		if clause.Root == nil {
			continue
		}
		clause.Root.Walk(func(n *ast.RuleNode) bool {
			if n.Constraints != nil && n.Constraints.ReasonCode != "" {
				if !taxonomy.Has(n.Constraints.ReasonCode) {
					missing[n.Constraints.ReasonCode] = true
				}
			}
			return true
		})
	}

	codes := make([]string, 0, len(missing))
	for code := range missing {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func reportLint(cmd *cobra.Command, result lintResult) error {
	out := cmd.OutOrStdout()

	if lintFlags.format == "json" {
		formatter := &cli.JSONFormatter{Indent: true}
		if err := formatter.FormatTo(out, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Linting %s\n", result.Rulebook)
		fmt.Fprintf(out, "  Clauses: %d\n", result.ClauseCount)
		fmt.Fprintf(out, "  Rules:   %d\n", result.RuleCount)
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "  ERROR: %s\n", msg)
		}
		for _, msg := range result.Warnings {
			fmt.Fprintf(out, "  WARNING: %s\n", msg)
		}
		if len(result.Errors) == 0 && len(result.Warnings) == 0 {
			fmt.Fprintln(out, "  ✓ No issues found")
		}
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("rulebook has %d error(s)", len(result.Errors))
	}
	if lintFlags.strict && len(result.Warnings) > 0 {
		return fmt.Errorf("rulebook has %d warning(s) in strict mode", len(result.Warnings))
	}
	return nil
}
