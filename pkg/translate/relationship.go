package translate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/finsight-io/finsight-engine/pkg/schema"
	"github.com/finsight-io/finsight-engine/pkg/sqlguard"
)

// joinTriggers are the phrases that indicate multi-table intent.
var joinTriggers = []string{
	"join", "related to", "associated with", "connected to",
	"along with", "including", "together with", "with their",
	"for vendor", "by vendor", "from vendor", "for fund", "by fund",
}

var vendorNamePattern = regexp.MustCompile(`(?i)(?:for|from|by)\s+(?:vendor|supplier)s?\s+([a-zA-Z0-9][a-zA-Z0-9&.\- ]*)`)

// RelationshipResolver builds join queries for questions that span tables.
// The two common domain pairs (invoice+vendor, invoice+fund) get canned
// grouped aggregates; anything else is resolved from declared relationships
// or a foreign-key naming convention.
type RelationshipResolver struct {
	registry *schema.Registry
	clauses  *ClauseBuilder
	logger   *zap.Logger
}

// NewRelationshipResolver creates a resolver over the schema registry.
func NewRelationshipResolver(registry *schema.Registry, clauses *ClauseBuilder, logger *zap.Logger) *RelationshipResolver {
	return &RelationshipResolver{
		registry: registry,
		clauses:  clauses,
		logger:   logger.Named("relationship-resolver"),
	}
}

// Resolve handles questions with join intent. Returns (nil, nil) when the
// text carries no join phrasing or no relationship can be established.
func (r *RelationshipResolver) Resolve(text string) (*Outcome, error) {
	lower := strings.ToLower(text)

	if !containsAny(lower, joinTriggers) {
		return nil, nil
	}

	if strings.Contains(lower, "invoice") && strings.Contains(lower, "vendor") {
		return r.invoiceVendorQuery(text, lower)
	}
	if strings.Contains(lower, "invoice") && strings.Contains(lower, "fund") {
		return r.invoiceFundQuery(lower)
	}

	return r.dynamicJoinQuery(lower)
}

// invoiceVendorQuery answers invoice questions grouped by vendor, with an
// optional paid/unpaid filter and an optional single-vendor name filter.
func (r *RelationshipResolver) invoiceVendorQuery(text, lower string) (*Outcome, error) {
	var conditions []string
	if status := r.clauses.ExtractStatus(lower, "invoices"); status != nil {
		conditions = append(conditions, status.Clause)
	}

	// A named vendor ("for vendor Acme Corp") narrows to that vendor. The
	// name comes from user text, so it is screened before embedding.
	if m := vendorNamePattern.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(m[1])
		if name != "" {
			if err := sqlguard.ScreenValue("vendor", name); err != nil {
				return nil, err
			}
			conditions = append(conditions, fmt.Sprintf("vendor LIKE '%%%s%%'", sqlguard.QuoteLiteral(name)))
		}
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	sql := fmt.Sprintf(
		"SELECT vendor, COUNT(*) AS invoice_count, SUM(amount) AS total_amount FROM invoices%s GROUP BY vendor ORDER BY total_amount DESC",
		where,
	)
	return sqlOutcome(sql, "I'm showing invoice data summarized by vendor."), nil
}

// invoiceFundQuery answers invoice questions grouped by fund.
func (r *RelationshipResolver) invoiceFundQuery(lower string) (*Outcome, error) {
	where := ""
	if status := r.clauses.ExtractStatus(lower, "invoices"); status != nil {
		where = " WHERE " + status.Clause
	}

	sql := fmt.Sprintf(
		"SELECT fund_paid_by, COUNT(*) AS invoice_count, SUM(amount) AS total_amount FROM invoices%s GROUP BY fund_paid_by ORDER BY total_amount DESC",
		where,
	)
	return sqlOutcome(sql, "I'm showing invoice data grouped by fund."), nil
}

// dynamicJoinQuery scans for mentioned tables and joins the first two via a
// declared relationship or the <table>_id naming convention.
func (r *RelationshipResolver) dynamicJoinQuery(lower string) (*Outcome, error) {
	mentioned := r.mentionedTables(lower)
	if len(mentioned) < 2 {
		return nil, nil
	}

	first, second := mentioned[0], mentioned[1]

	if rel := r.registry.RelationshipBetween(first, second); rel != nil {
		sql := fmt.Sprintf(
			"SELECT * FROM %s JOIN %s ON %s.%s = %s.%s",
			rel.ParentTable, rel.ChildTable,
			rel.ChildTable, rel.ChildColumn,
			rel.ParentTable, rel.ParentColumn,
		)
		explanation := fmt.Sprintf("I've joined %s and %s based on their declared relationship.", rel.ParentTable, rel.ChildTable)
		return sqlOutcome(sql, explanation), nil
	}

	// Convention: a child table references its parent via <singular>_id.
	if outcome := r.conventionJoin(first, second); outcome != nil {
		return outcome, nil
	}
	if outcome := r.conventionJoin(second, first); outcome != nil {
		return outcome, nil
	}

	return nil, nil
}

// conventionJoin joins child to parent when the child declares a
// <singular-parent>_id column.
func (r *RelationshipResolver) conventionJoin(parent, child string) *Outcome {
	fkColumn := inflection.Singular(strings.ToLower(parent)) + "_id"
	if !r.registry.HasColumn(child, fkColumn) {
		return nil
	}

	sql := fmt.Sprintf(
		"SELECT * FROM %s JOIN %s ON %s.%s = %s.id",
		parent, child, child, fkColumn, parent,
	)
	explanation := fmt.Sprintf("I've joined %s and %s based on the %s column.", parent, child, fkColumn)
	return sqlOutcome(sql, explanation)
}

// mentionedTables returns the known tables whose name or singular/plural
// form appears in the question, preserving known-table order.
func (r *RelationshipResolver) mentionedTables(lower string) []string {
	var mentioned []string
	for _, table := range r.registry.Tables() {
		tableLower := strings.ToLower(table)
		singular := inflection.Singular(tableLower)
		plural := inflection.Plural(tableLower)
		if strings.Contains(lower, tableLower) ||
			strings.Contains(lower, singular) ||
			strings.Contains(lower, plural) {
			mentioned = append(mentioned, table)
		}
	}
	return mentioned
}
