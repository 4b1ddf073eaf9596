package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_schema.json")
	r := NewRegistry(path, zap.NewNop())

	r.Load()

	assert.True(t, r.Empty())
	assert.Empty(t, r.Tables())
}

func TestRegistrySaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_schema.json")

	r := NewRegistry(path, zap.NewNop())
	r.SetTable("invoices", []Column{
		{Name: "id", Type: "integer"},
		{Name: "amount", Type: "numeric"},
	})
	r.SetTable("vendors", []Column{
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "text"},
	})
	r.AddRelationship(Relationship{
		ParentTable:  "vendors",
		ParentColumn: "id",
		ChildTable:   "invoices",
		ChildColumn:  "vendor_id",
		Cardinality:  "one-to-many",
	})
	require.NoError(t, r.Save())

	loaded := NewRegistry(path, zap.NewNop())
	loaded.Load()

	assert.Equal(t, []string{"invoices", "vendors"}, loaded.Tables())
	assert.True(t, loaded.HasColumn("invoices", "amount"))
	assert.False(t, loaded.HasColumn("invoices", "name"))
	require.Len(t, loaded.Relationships(), 1)
	assert.Equal(t, "vendor_id", loaded.Relationships()[0].ChildColumn)
}

func TestRegistryLoadSkipsMalformedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_schema.json")
	content := `{
		"schema": {
			"invoices": [
				{"name": "id", "type": "integer"},
				{"name": "", "type": "text"},
				{"name": "amount", "type": "numeric"}
			],
			"": [{"name": "ghost", "type": "text"}]
		},
		"relationships": [
			{"parent_table": "vendors", "parent_column": "id", "child_table": "invoices", "child_column": "vendor_id"},
			{"parent_table": "vendors", "parent_column": "", "child_table": "invoices", "child_column": "vendor_id"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := NewRegistry(path, zap.NewNop())
	r.Load()

	assert.Equal(t, []string{"invoices"}, r.Tables())
	assert.Len(t, r.Columns("invoices"), 2)
	assert.Len(t, r.Relationships(), 1)
}

func TestRegistryLoadInvalidJSONKeepsCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_schema.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o644))

	r := NewRegistry(path, zap.NewNop())
	r.SetTable("invoices", []Column{{Name: "id", Type: "integer"}})

	r.Load()

	assert.Equal(t, []string{"invoices"}, r.Tables())
}

func TestRelationshipBetweenEitherDirection(t *testing.T) {
	r := NewRegistry("unused.json", zap.NewNop())
	r.AddRelationship(Relationship{
		ParentTable:  "vendors",
		ParentColumn: "id",
		ChildTable:   "invoices",
		ChildColumn:  "vendor_id",
	})

	forward := r.RelationshipBetween("vendors", "invoices")
	require.NotNil(t, forward)

	reverse := r.RelationshipBetween("invoices", "vendors")
	require.NotNil(t, reverse)
	assert.Equal(t, forward.ChildColumn, reverse.ChildColumn)

	assert.Nil(t, r.RelationshipBetween("vendors", "funds"))
}

func TestDefaultRegistryCoversCanonicalTables(t *testing.T) {
	r := DefaultRegistry("unused.json", zap.NewNop())

	want := []string{
		"deal_allocations", "employees", "expenses", "funds",
		"invoices", "revenue", "vendors",
	}
	assert.Equal(t, want, r.Tables())
	assert.True(t, r.HasColumn("invoices", "check_number"))
	assert.True(t, r.HasColumn("invoices", "days_overdue"))
	assert.NotNil(t, r.RelationshipBetween("vendors", "invoices"))
	assert.NotNil(t, r.RelationshipBetween("funds", "deal_allocations"))
}
