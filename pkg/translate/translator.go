package translate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsight-io/finsight-engine/pkg/patterns"
	"github.com/finsight-io/finsight-engine/pkg/schema"
	"github.com/finsight-io/finsight-engine/pkg/sqlguard"
)

// Stage is one named translation strategy. A stage reports one of three
// outcomes: a match (non-nil Outcome), no match (nil, nil), or an internal
// fault (nil, err). Faults are logged as anomalies and treated as no match
// so the cascade can continue.
type Stage struct {
	Name string
	Run  func(ctx context.Context, text string) (*Outcome, error)
}

// Translator runs the ordered strategy cascade. It is safe for concurrent
// use; translation only reads the registry and pattern library, whose
// reload/save actions are internally locked.
type Translator struct {
	stages      []Stage
	suggestions *SuggestionEngine
	logger      *zap.Logger
}

// New wires the default cascade: intent routing, then the financial rules,
// then relationship resolution, then generic pattern matching. The access
// provider may be nil, which disables intent routing.
func New(
	registry *schema.Registry,
	library *patterns.Library,
	maps *Mappings,
	access SafeAccess,
	logger *zap.Logger,
) *Translator {
	clauses := NewClauseBuilder(maps)
	entities := NewEntityResolver(maps, logger)

	router := NewIntentRouter(access, registry.Tables, logger)
	rules := NewFinancialRules(clauses, logger)
	relationships := NewRelationshipResolver(registry, clauses, logger)
	generic := NewGenericPatternMatcher(library, registry, entities, clauses, logger)

	stages := []Stage{
		{Name: "intent", Run: router.Route},
		{Name: "financial-rules", Run: func(_ context.Context, text string) (*Outcome, error) {
			return rules.Parse(text)
		}},
		{Name: "relationship", Run: func(_ context.Context, text string) (*Outcome, error) {
			return relationships.Resolve(text)
		}},
		{Name: "generic-patterns", Run: func(_ context.Context, text string) (*Outcome, error) {
			return generic.Match(text)
		}},
	}

	return NewWithStages(stages, NewSuggestionEngine(registry.Tables), logger)
}

// NewWithStages builds a translator over an explicit stage list. Tests use
// this to exercise and reorder stages independently.
func NewWithStages(stages []Stage, suggestions *SuggestionEngine, logger *zap.Logger) *Translator {
	return &Translator{
		stages:      stages,
		suggestions: suggestions,
		logger:      logger.Named("translator"),
	}
}

// Translate turns a free-text question into an outcome. Stages run in order
// and the first match wins. Returns nil on total failure; no error or panic
// ever propagates to the caller.
func (t *Translator) Translate(ctx context.Context, text string) *Outcome {
	for _, stage := range t.stages {
		outcome, err := t.runStage(ctx, stage, text)
		if err != nil {
			t.logger.Warn("Translation stage fault",
				zap.String("stage", stage.Name), zap.Error(err))
			continue
		}
		if outcome != nil {
			// Final gate: no SQL outcome leaves the translator without a
			// single-statement and placeholder check.
			if outcome.SQL != "" {
				if err := sqlguard.ValidateStatement(outcome.SQL); err != nil {
					t.logger.Warn("Translation stage produced an invalid statement",
						zap.String("stage", stage.Name), zap.Error(err))
					continue
				}
			}
			t.logger.Debug("Translation stage matched",
				zap.String("stage", stage.Name),
				zap.Bool("intent_based", outcome.IsIntentBased()))
			return outcome
		}
	}

	t.logger.Info("No translation strategy matched", zap.Int("stages", len(t.stages)))
	return nil
}

// runStage executes one stage, converting a panic into a stage fault.
func (t *Translator) runStage(ctx context.Context, stage Stage, text string) (outcome *Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = fmt.Errorf("stage %s panicked: %v", stage.Name, r)
		}
	}()
	return stage.Run(ctx, text)
}

// Suggest produces example questions for a failed translation. Always
// returns a non-empty string.
func (t *Translator) Suggest(text string) string {
	return t.suggestions.Suggest(text)
}

// Examples returns table-derived example questions.
func (t *Translator) Examples() []string {
	return t.suggestions.TemplateExamples()
}
