package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ruler-hq/ruler/pkg/rulebook/ast"
	"ruler-hq/ruler/pkg/rules/engine"
	"ruler-hq/ruler/pkg/rules/reason"
	"ruler-hq/ruler/pkg/telemetry/metrics"
	"ruler-hq/ruler/pkg/usage"
)

// OccurrenceRecorder persists claim occurrences so later frequency-limit
// checks can count them. The usage store satisfies it.
type OccurrenceRecorder interface {
	Record(ctx context.Context, occ usage.Occurrence) error
}

// ErrClauseNotFound is returned when the requested clause ID is not in the
// loaded rulebook.
var ErrClauseNotFound = errors.New("clause not found")

// ClauseSource supplies clauses by ID. The rulebook manager satisfies it.
type ClauseSource interface {
	Clause(id string) (*ast.Clause, bool)
	Clauses() []*ast.Clause
}

// Result is the complete validation result for one submission.
type Result struct {
	ClauseID string `json:"clause_id"`
	Status   string `json:"status"`

	// Reasons are the machine reason codes in rule declaration order,
	// deduplicated on first occurrence.
	Reasons []string `json:"reasons"`

	// StandardizedReasons carries the same deduplicated codes as Reasons.
	// Kept as a separate field for wire compatibility.
	StandardizedReasons []string `json:"standardized_reasons"`

	// SuggestedFixes are the taxonomy-resolved reason objects, parallel
	// to Reasons.
	SuggestedFixes []reason.ResolvedReason `json:"suggested_fixes"`

	TotalIssues  int `json:"total_issues"`
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`

	// Variables is the merged variable map the reasons were rendered
	// against, for client-side display.
	Variables map[string]any `json:"variables"`
}

// ValidatorConfig configures a Validator.
type ValidatorConfig struct {
	// Shared is the allowed-values table for the interpreter. Nil selects
	// the defaults.
	Shared *engine.SharedConfig

	// Counter backs frequency-limit rules. Nil skips them.
	Counter engine.OccurrenceCounter

	// Recorder persists an occurrence for each frequency-limited scope
	// when a submission passes. Nil disables recording.
	Recorder OccurrenceRecorder

	// Clock supplies the current time. Nil selects time.Now.
	Clock func() time.Time

	// Metrics records validation outcomes. Nil disables recording.
	Metrics *metrics.ValidationMetrics

	// Logger is the structured logger. Nil selects slog.Default.
	Logger *slog.Logger
}

// Validator ties the rulebook, the rule interpreter, and the reason
// resolver into the single validation entry point.
type Validator struct {
	clauses  ClauseSource
	interp   *engine.Interpreter
	resolver *reason.Resolver
	shared   *engine.SharedConfig
	clock    func() time.Time
	metrics  *metrics.ValidationMetrics
	recorder OccurrenceRecorder
	logger   *slog.Logger
}

// NewValidator creates a validator over the clause source and taxonomy.
func NewValidator(clauses ClauseSource, resolver *reason.Resolver, cfg ValidatorConfig) *Validator {
	if cfg.Shared == nil {
		cfg.Shared = engine.DefaultSharedConfig()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	interp := engine.NewInterpreter(engine.Config{
		Shared:    cfg.Shared,
		Clock:     cfg.Clock,
		KnownCode: resolver.KnownCode,
		Counter:   cfg.Counter,
	})

	return &Validator{
		clauses:  clauses,
		interp:   interp,
		resolver: resolver,
		shared:   cfg.Shared,
		clock:    cfg.Clock,
		metrics:  cfg.Metrics,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
	}
}

// Validate evaluates the submission against the named clause and resolves
// the resulting reason codes into the full result.
func (v *Validator) Validate(ctx context.Context, clauseID string, inputs map[string]any) (*Result, error) {
	clause, ok := v.clauses.Clause(clauseID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClauseNotFound, clauseID)
	}

	start := v.clock()
	evaluation := v.interp.Evaluate(ctx, clause, inputs)

	variables := engine.BuildVariables(clause, inputs, v.shared, v.clock())
	engine.ApplyOverrides(clause.Root, variables)

	contexts := resolveContexts(evaluation)
	resolution, err := v.resolver.Resolve(contexts, variables)
	if err != nil {
		return nil, fmt.Errorf("resolve reasons for %s: %w", clauseID, err)
	}

	result := &Result{
		ClauseID:            clauseID,
		Status:              string(evaluation.Status),
		Reasons:             evaluation.Codes(),
		StandardizedReasons: evaluation.Codes(),
		SuggestedFixes:      resolution.Reasons,
		TotalIssues:         resolution.TotalIssues,
		ErrorCount:          resolution.ErrorCount,
		WarningCount:        resolution.WarningCount,
		Variables:           variables,
	}
	if result.Reasons == nil {
		result.Reasons = []string{}
	}
	if result.StandardizedReasons == nil {
		result.StandardizedReasons = []string{}
	}
	if result.SuggestedFixes == nil {
		result.SuggestedFixes = []reason.ResolvedReason{}
	}

	v.record(clauseID, evaluation, time.Since(start))
	v.recordOccurrences(ctx, clause, inputs, evaluation)
	return result, nil
}

// recordOccurrences persists one occurrence per frequency-limited scope
// after a passing validation, so the claim counts against future
// frequency checks. Rejected submissions are not counted. A store
// failure is logged and does not fail the validation.
func (v *Validator) recordOccurrences(ctx context.Context, clause *ast.Clause, inputs map[string]any, evaluation *engine.Evaluation) {
	if v.recorder == nil || evaluation.Status != engine.StatusOK || clause.Root == nil {
		return
	}

	now := v.clock()
	clause.Root.Walk(func(n *ast.RuleNode) bool {
		c := n.Constraints
		if c == nil || c.Formula == nil || c.Formula.Kind != ast.FormulaFrequencyLimit {
			return true
		}
		scopeValue := engine.ScopeValue(inputs[n.Field])
		if scopeValue == "" {
			return true
		}
		occ := usage.Occurrence{
			ClauseID:   clause.ClauseID,
			Scope:      c.Formula.Scope,
			ScopeValue: scopeValue,
			OccurredAt: now,
		}
		if err := v.recorder.Record(ctx, occ); err != nil {
			v.logger.Warn("failed to record claim occurrence",
				"clause_id", clause.ClauseID,
				"scope", occ.Scope,
				"error", err)
		}
		return true
	})
}

// LookupClause returns the clause for the ID, or ErrClauseNotFound.
func (v *Validator) LookupClause(clauseID string) (*ast.Clause, error) {
	clause, ok := v.clauses.Clause(clauseID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClauseNotFound, clauseID)
	}
	return clause, nil
}

// Clauses returns all loaded clauses in declaration order.
func (v *Validator) Clauses() []*ast.Clause {
	return v.clauses.Clauses()
}

// resolveContexts pairs each deduplicated reason code with the variables
// of its first violation.
func resolveContexts(evaluation *engine.Evaluation) []reason.CodeContext {
	var contexts []reason.CodeContext
	seen := make(map[string]bool)
	for _, violation := range evaluation.Violations {
		code := violation.QualifiedCode()
		if seen[code] {
			continue
		}
		seen[code] = true
		contexts = append(contexts, reason.CodeContext{
			Code:      code,
			Variables: violation.Variables,
		})
	}
	return contexts
}

func (v *Validator) record(clauseID string, evaluation *engine.Evaluation, elapsed time.Duration) {
	if v.metrics == nil {
		return
	}
	v.metrics.RecordValidation(clauseID, string(evaluation.Status), elapsed)
	for _, violation := range evaluation.Violations {
		v.metrics.RecordViolation(clauseID, violation.Code)
	}
}
