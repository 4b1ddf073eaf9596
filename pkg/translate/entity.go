package translate

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/finsight-io/finsight-engine/pkg/schema"
)

// EntityResolver maps noun phrases to canonical table and column names.
// Given a non-empty known-table list it always resolves to some table; the
// cascade degrades from exact matching down to a first-table fallback.
type EntityResolver struct {
	maps   *Mappings
	logger *zap.Logger
}

// NewEntityResolver creates a resolver over the given synonym mappings.
func NewEntityResolver(maps *Mappings, logger *zap.Logger) *EntityResolver {
	return &EntityResolver{maps: maps, logger: logger.Named("entity-resolver")}
}

// ResolveTable maps a noun phrase to a table from knownTables. Returns ""
// only when knownTables is empty. Each stage of the cascade is tried only if
// the previous one yields nothing.
func (r *EntityResolver) ResolveTable(phrase string, knownTables []string) string {
	if len(knownTables) == 0 {
		return ""
	}

	p := strings.TrimSpace(strings.ToLower(phrase))

	// 1. Exact case-insensitive match.
	for _, table := range knownTables {
		if p == strings.ToLower(table) {
			return table
		}
	}

	// 2. Direct synonym dictionary.
	if table := lookupSynonym(r.maps.TableSynonyms, p, knownTables); table != "" {
		return table
	}

	// 3. Singular-stem match, substring containment both ways.
	for _, table := range knownTables {
		tableLower := strings.ToLower(table)
		singular := inflection.Singular(tableLower)
		if strings.Contains(p, singular) || strings.Contains(p, tableLower) ||
			(p != "" && strings.Contains(singular, p)) {
			return table
		}
	}

	// 4. Multi-word decomposition: every token of the table name must appear.
	for _, table := range knownTables {
		tokens := splitTableName(table)
		if len(tokens) < 2 {
			continue
		}
		all := true
		for _, tok := range tokens {
			if !strings.Contains(p, tok) {
				all = false
				break
			}
		}
		if all {
			return table
		}
	}

	// 5. Domain synonym dictionary.
	if table := lookupSynonym(r.maps.DomainSynonyms, p, knownTables); table != "" {
		return table
	}

	// 6. Context-clue scan.
	if table := lookupSynonym(r.maps.ContextClues, p, knownTables); table != "" {
		return table
	}

	// 7. Fallback to the first known table.
	r.logger.Debug("Could not map phrase to a table, using first table as fallback",
		zap.String("phrase", phrase), zap.String("table", knownTables[0]))
	return knownTables[0]
}

// ResolveColumn maps a phrase to a column of the given table. The cascade is
// total: it ends at the table's first declared column and finally the global
// default "amount".
func (r *EntityResolver) ResolveColumn(phrase, table string, reg *schema.Registry) string {
	p := strings.TrimSpace(strings.ToLower(phrase))

	synonyms := r.maps.ColumnSynonyms[table]

	// Exact match against the table's synonym dictionary.
	for _, s := range synonyms {
		if p == s.Key {
			return s.Value
		}
	}

	// Substring overlap against the same dictionary.
	for _, s := range synonyms {
		if strings.Contains(p, s.Key) || (p != "" && strings.Contains(s.Key, p)) {
			return s.Value
		}
	}

	// Schema column-name substring match.
	for _, col := range reg.Columns(table) {
		colLower := strings.ToLower(col.Name)
		if strings.Contains(p, colLower) || (p != "" && strings.Contains(colLower, p)) {
			return col.Name
		}
	}

	// First declared column of the table.
	if cols := reg.Columns(table); len(cols) > 0 {
		return cols[0].Name
	}

	return "amount"
}

// lookupSynonym returns the mapped table for the first synonym key contained
// in the phrase, provided the mapped table is actually known. The returned
// name uses the known-table list's casing.
func lookupSynonym(synonyms []synonym, phrase string, knownTables []string) string {
	for _, s := range synonyms {
		if !strings.Contains(phrase, s.Key) {
			continue
		}
		for _, table := range knownTables {
			if strings.EqualFold(table, s.Value) {
				return table
			}
		}
	}
	return ""
}

// splitTableName breaks a table name into lowercase tokens on spaces,
// underscores, or camelCase boundaries.
func splitTableName(table string) []string {
	if strings.ContainsAny(table, " _") {
		fields := strings.FieldsFunc(table, func(r rune) bool {
			return r == ' ' || r == '_'
		})
		tokens := make([]string, 0, len(fields))
		for _, f := range fields {
			if f != "" {
				tokens = append(tokens, strings.ToLower(f))
			}
		}
		return tokens
	}

	// camelCase split
	var tokens []string
	start := 0
	for i, r := range table {
		if i > 0 && unicode.IsUpper(r) {
			tokens = append(tokens, strings.ToLower(table[start:i]))
			start = i
		}
	}
	tokens = append(tokens, strings.ToLower(table[start:]))
	return tokens
}
