package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "8484", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "query_patterns.json", cfg.PatternFile)
	assert.Equal(t, "db_schema.json", cfg.SchemaFile)
	assert.False(t, cfg.Database.Configured())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PATTERN_FILE", "custom_patterns.json")
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("PGPASSWORD", "s3cret")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "custom_patterns.json", cfg.PatternFile)
	assert.True(t, cfg.Database.Configured())
	assert.Contains(t, cfg.Database.ConnectionString(), "host=db.internal")
	assert.Contains(t, cfg.Database.ConnectionString(), "password=s3cret")
}

func TestLoadRejectsEmptyFilePaths(t *testing.T) {
	t.Setenv("PATTERN_FILE", "")

	_, err := Load("dev")
	assert.Error(t, err)
}
