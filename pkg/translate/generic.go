package translate

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/finsight-io/finsight-engine/pkg/patterns"
	"github.com/finsight-io/finsight-engine/pkg/schema"
	"github.com/finsight-io/finsight-engine/pkg/sqlguard"
)

// GenericPatternMatcher is the last-resort strategy. It matches the question
// against the pattern library in order and assembles SQL from the first
// matching template using the entity resolver and clause builder. If the
// matched template cannot be fully resolved the strategy gives up rather
// than trying further patterns.
type GenericPatternMatcher struct {
	library  *patterns.Library
	registry *schema.Registry
	entities *EntityResolver
	clauses  *ClauseBuilder
	logger   *zap.Logger
}

// NewGenericPatternMatcher creates the matcher.
func NewGenericPatternMatcher(
	library *patterns.Library,
	registry *schema.Registry,
	entities *EntityResolver,
	clauses *ClauseBuilder,
	logger *zap.Logger,
) *GenericPatternMatcher {
	return &GenericPatternMatcher{
		library:  library,
		registry: registry,
		entities: entities,
		clauses:  clauses,
		logger:   logger.Named("generic-matcher"),
	}
}

// Match tries the library patterns in order against the lowercased question.
func (g *GenericPatternMatcher) Match(text string) (*Outcome, error) {
	lower := strings.ToLower(text)

	for _, entry := range g.library.Entries() {
		m := entry.Regex.FindStringSubmatch(lower)
		if m == nil {
			continue
		}

		sql, err := g.buildFromTemplate(entry, m, text)
		if err != nil {
			return nil, err
		}
		if sql == "" {
			// The first matching pattern could not be resolved; no further
			// patterns are tried for this strategy.
			return nil, nil
		}

		explanation := fmt.Sprintf("I interpreted your question as a request to %s.", entry.Description)
		return sqlOutcome(sql, explanation), nil
	}

	return nil, nil
}

// buildFromTemplate substitutes the template placeholders from the captured
// groups. Returns "" when the template cannot be resolved.
func (g *GenericPatternMatcher) buildFromTemplate(entry patterns.CompiledEntry, groups []string, originalText string) (string, error) {
	template := entry.SQLTemplate

	// Join templates are handled by the relationship strategy; a generic
	// join match cannot be resolved here.
	if strings.Contains(template, "{join_condition}") || strings.Contains(template, "{primary_table}") {
		return "", nil
	}

	known := g.registry.Tables()
	if len(known) == 0 {
		return "", nil
	}

	subject := ""
	if len(groups) > 1 {
		subject = groups[1]
	}
	// An empty subject capture carries no noun to resolve; handing it to the
	// resolver would fall through to its first-table fallback and produce a
	// query against an arbitrary table. Discard the match instead.
	if strings.TrimSpace(subject) == "" {
		return "", nil
	}

	table := g.entities.ResolveTable(subject, known)
	if table == "" {
		return "", nil
	}

	if strings.Contains(template, "{column}") {
		column := g.entities.ResolveColumn(subject, table, g.registry)
		if column == "" {
			return "", nil
		}
		template = strings.ReplaceAll(template, "{column}", column)
	}

	template = strings.ReplaceAll(template, "{table}", table)

	filter := ""
	if len(groups) > 2 {
		filter = groups[2]
	}
	// Status keywords may appear outside the captured filter group, so the
	// where-clause lookup also gets the full original question.
	where, err := g.clauses.BuildWhere(filter, originalText, table)
	if err != nil {
		return "", err
	}
	template = strings.TrimSpace(strings.ReplaceAll(template, "{where_clause}", where))

	if err := sqlguard.ValidateStatement(template); err != nil {
		return "", fmt.Errorf("generated statement rejected: %w", err)
	}

	return template, nil
}
