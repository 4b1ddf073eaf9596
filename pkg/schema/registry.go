package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Column describes a single column of a known table.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Relationship declares a known join path between two tables.
type Relationship struct {
	ParentTable  string `json:"parent_table"`
	ParentColumn string `json:"parent_column"`
	ChildTable   string `json:"child_table"`
	ChildColumn  string `json:"child_column"`
	Cardinality  string `json:"cardinality,omitempty"`
}

// registryFile is the persisted JSON shape of the registry.
type registryFile struct {
	Schema        map[string][]Column `json:"schema"`
	Relationships []Relationship      `json:"relationships"`
}

// Registry holds table → column metadata and declared relationships.
// It is read-only during translation; Load and Save are distinct
// caller-initiated actions guarded by an internal lock.
type Registry struct {
	mu            sync.RWMutex
	path          string
	tables        map[string][]Column
	relationships []Relationship
	logger        *zap.Logger
}

// NewRegistry creates an empty registry persisted at path.
func NewRegistry(path string, logger *zap.Logger) *Registry {
	return &Registry{
		path:   path,
		tables: make(map[string][]Column),
		logger: logger.Named("schema-registry"),
	}
}

// Load reads the persisted schema cache. A missing file leaves the registry
// empty; malformed JSON leaves the current contents untouched. Individual
// malformed entries are skipped, never fatal to the whole load. Load never
// returns an error to the caller.
func (r *Registry) Load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Info("No schema cache file, starting with empty registry",
				zap.String("path", r.path))
		} else {
			r.logger.Warn("Failed to read schema cache file",
				zap.String("path", r.path), zap.Error(err))
		}
		return
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		r.logger.Warn("Schema cache file is not valid JSON, keeping current registry",
			zap.String("path", r.path), zap.Error(err))
		return
	}

	tables := make(map[string][]Column, len(file.Schema))
	for table, cols := range file.Schema {
		if table == "" {
			r.logger.Warn("Skipping schema entry with empty table name")
			continue
		}
		kept := make([]Column, 0, len(cols))
		for _, col := range cols {
			if col.Name == "" {
				r.logger.Warn("Skipping column with empty name", zap.String("table", table))
				continue
			}
			kept = append(kept, col)
		}
		tables[table] = kept
	}

	rels := make([]Relationship, 0, len(file.Relationships))
	for _, rel := range file.Relationships {
		if rel.ParentTable == "" || rel.ParentColumn == "" || rel.ChildTable == "" || rel.ChildColumn == "" {
			r.logger.Warn("Skipping partially-specified relationship",
				zap.String("parent_table", rel.ParentTable),
				zap.String("child_table", rel.ChildTable))
			continue
		}
		rels = append(rels, rel)
	}

	r.mu.Lock()
	r.tables = tables
	r.relationships = rels
	r.mu.Unlock()

	r.logger.Info("Loaded schema registry",
		zap.Int("tables", len(tables)),
		zap.Int("relationships", len(rels)))
}

// Save persists the current registry contents to the cache file.
func (r *Registry) Save() error {
	r.mu.RLock()
	file := registryFile{
		Schema:        r.tables,
		Relationships: r.relationships,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal schema registry: %w", err)
	}

	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write schema cache file: %w", err)
	}
	return nil
}

// Empty reports whether no tables are registered.
func (r *Registry) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables) == 0
}

// Tables returns the known table names in a stable sorted order.
func (r *Registry) Tables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Columns returns the declared columns of a table, or nil if unknown.
func (r *Registry) Columns(table string) []Column {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cols := r.tables[table]
	out := make([]Column, len(cols))
	copy(out, cols)
	return out
}

// HasColumn reports whether the table declares the named column.
func (r *Registry) HasColumn(table, column string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, col := range r.tables[table] {
		if col.Name == column {
			return true
		}
	}
	return false
}

// Relationships returns all declared relationships.
func (r *Registry) Relationships() []Relationship {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Relationship, len(r.relationships))
	copy(out, r.relationships)
	return out
}

// RelationshipBetween returns the first declared relationship connecting the
// two tables in either direction, or nil when none is declared.
func (r *Registry) RelationshipBetween(a, b string) *Relationship {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.relationships {
		rel := r.relationships[i]
		if (rel.ParentTable == a && rel.ChildTable == b) ||
			(rel.ParentTable == b && rel.ChildTable == a) {
			out := rel
			return &out
		}
	}
	return nil
}

// SetTable registers or replaces the column set for a table.
func (r *Registry) SetTable(table string, cols []Column) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[table] = cols
}

// AddRelationship appends a declared relationship.
func (r *Registry) AddRelationship(rel Relationship) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.relationships = append(r.relationships, rel)
}
