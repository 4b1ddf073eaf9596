package patterns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLibrarySeedsDefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query_patterns.json")
	l := NewLibrary(path, zap.NewNop())

	l.Load()

	assert.Equal(t, len(DefaultEntries()), l.Len())
	// Seeding also persists the defaults so subsequent runs read a file.
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestLibrarySaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query_patterns.json")

	l := NewLibrary(path, zap.NewNop())
	l.Load()
	require.NoError(t, l.Save())

	reloaded := NewLibrary(path, zap.NewNop())
	reloaded.Load()

	require.Equal(t, l.Len(), reloaded.Len())
	for i, entry := range reloaded.Entries() {
		assert.Equal(t, l.Entries()[i].Pattern, entry.Pattern)
		assert.Equal(t, l.Entries()[i].SQLTemplate, entry.SQLTemplate)
	}
}

func TestLibrarySkipsInvalidRegex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query_patterns.json")
	content := `[
		{"pattern": "show (.*)", "sql_template": "SELECT * FROM {table}", "example": "", "description": "show records"},
		{"pattern": "count ((", "sql_template": "SELECT COUNT(*) FROM {table}", "example": "", "description": "broken"},
		{"pattern": "sum (.*)", "sql_template": "SELECT SUM(amount) FROM {table}", "example": "", "description": "sum records"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	l := NewLibrary(path, zap.NewNop())
	l.Load()

	require.Equal(t, 2, l.Len())
	assert.Equal(t, "show records", l.Entries()[0].Description)
	assert.Equal(t, "sum records", l.Entries()[1].Description)
}

func TestLibraryFallsBackToDefaultsOnInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query_patterns.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	l := NewLibrary(path, zap.NewNop())
	l.Load()

	assert.Equal(t, len(DefaultEntries()), l.Len())
}

func TestDefaultEntriesOrderAndShape(t *testing.T) {
	entries := DefaultEntries()
	require.NotEmpty(t, entries)

	// The catch-all listing pattern must come first so "show all X" is not
	// claimed by an aggregate template.
	assert.Contains(t, entries[0].SQLTemplate, "SELECT * FROM {table}")

	for _, e := range entries {
		assert.NotEmpty(t, e.Pattern)
		assert.NotEmpty(t, e.SQLTemplate)
		assert.NotEmpty(t, e.Description)
	}
}
