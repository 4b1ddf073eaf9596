package translate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight-io/finsight-engine/pkg/schema"
)

func newTestResolver(t *testing.T, registry *schema.Registry) *RelationshipResolver {
	t.Helper()
	clauses := NewClauseBuilderAt(DefaultMappings(), fixedClock(2026, time.March))
	return NewRelationshipResolver(registry, clauses, zap.NewNop())
}

func TestResolveNoJoinIntent(t *testing.T) {
	r := newTestResolver(t, schema.DefaultRegistry("unused.json", zap.NewNop()))

	outcome, err := r.Resolve("Show me all expenses")
	require.NoError(t, err)
	assert.Nil(t, outcome)
}

func TestResolveInvoiceVendorSummary(t *testing.T) {
	r := newTestResolver(t, schema.DefaultRegistry("unused.json", zap.NewNop()))

	outcome, err := r.Resolve("Show unpaid invoices by vendor")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t,
		"SELECT vendor, COUNT(*) AS invoice_count, SUM(amount) AS total_amount "+
			"FROM invoices WHERE check_number = '' GROUP BY vendor ORDER BY total_amount DESC",
		outcome.SQL)
}

func TestResolveNamedVendorPreservesCase(t *testing.T) {
	r := newTestResolver(t, schema.DefaultRegistry("unused.json", zap.NewNop()))

	outcome, err := r.Resolve("Show invoices for vendor Acme Corp")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Contains(t, outcome.SQL, "vendor LIKE '%Acme Corp%'")
	assert.Contains(t, outcome.SQL, "GROUP BY vendor")
}

func TestResolveInvoiceFundSummary(t *testing.T) {
	r := newTestResolver(t, schema.DefaultRegistry("unused.json", zap.NewNop()))

	outcome, err := r.Resolve("Show invoices by fund")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t,
		"SELECT fund_paid_by, COUNT(*) AS invoice_count, SUM(amount) AS total_amount "+
			"FROM invoices GROUP BY fund_paid_by ORDER BY total_amount DESC",
		outcome.SQL)
}

func TestResolveDeclaredRelationshipJoin(t *testing.T) {
	registry := schema.NewRegistry("unused.json", zap.NewNop())
	registry.SetTable("funds", []schema.Column{{Name: "id", Type: "integer"}})
	registry.SetTable("deal_allocations", []schema.Column{
		{Name: "id", Type: "integer"},
		{Name: "fund_id", Type: "integer"},
	})
	registry.AddRelationship(schema.Relationship{
		ParentTable:  "funds",
		ParentColumn: "id",
		ChildTable:   "deal_allocations",
		ChildColumn:  "fund_id",
	})
	r := newTestResolver(t, registry)

	outcome, err := r.Resolve("Show deal_allocations associated with funds")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t,
		"SELECT * FROM funds JOIN deal_allocations ON deal_allocations.fund_id = funds.id",
		outcome.SQL)
}

func TestResolveConventionJoin(t *testing.T) {
	registry := schema.NewRegistry("unused.json", zap.NewNop())
	registry.SetTable("teams", []schema.Column{
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "text"},
	})
	registry.SetTable("players", []schema.Column{
		{Name: "id", Type: "integer"},
		{Name: "team_id", Type: "integer"},
	})
	r := newTestResolver(t, registry)

	outcome, err := r.Resolve("Show players along with teams")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t,
		"SELECT * FROM teams JOIN players ON players.team_id = teams.id",
		outcome.SQL)
}

func TestResolveJoinIntentWithoutRelationship(t *testing.T) {
	registry := schema.NewRegistry("unused.json", zap.NewNop())
	registry.SetTable("apples", []schema.Column{{Name: "id", Type: "integer"}})
	registry.SetTable("oranges", []schema.Column{{Name: "id", Type: "integer"}})
	r := newTestResolver(t, registry)

	outcome, err := r.Resolve("Show apples together with oranges")
	require.NoError(t, err)
	assert.Nil(t, outcome)
}
