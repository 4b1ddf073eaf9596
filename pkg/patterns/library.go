// Package patterns holds the ordered regex → SQL-template rules used by the
// generic last-resort matcher. Order is significant: the first matching
// pattern wins.
package patterns

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

// Entry is one regex → SQL-template rule. Entries are immutable after load.
type Entry struct {
	Pattern     string `json:"pattern"`
	SQLTemplate string `json:"sql_template"`
	Example     string `json:"example"`
	Description string `json:"description"`
}

// CompiledEntry pairs an Entry with its compiled regex.
type CompiledEntry struct {
	Entry
	Regex *regexp.Regexp
}

// Library is the ordered collection of pattern entries. It is read-only
// during translation; Load and Save are distinct caller-initiated actions
// guarded by an internal lock.
type Library struct {
	mu      sync.RWMutex
	path    string
	entries []CompiledEntry
	logger  *zap.Logger
}

// NewLibrary creates an empty library persisted at path.
func NewLibrary(path string, logger *zap.Logger) *Library {
	return &Library{
		path:   path,
		logger: logger.Named("pattern-library"),
	}
}

// Load reads the persisted pattern file. When the file does not exist the
// built-in defaults are seeded and persisted so subsequent runs read a
// stable file. Unreadable JSON falls back to defaults without saving.
// Entries whose regex fails to compile are dropped with a warning.
// Load never returns an error to the caller.
func (l *Library) Load() {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Info("No pattern file, seeding defaults", zap.String("path", l.path))
			l.setEntries(DefaultEntries())
			if saveErr := l.Save(); saveErr != nil {
				l.logger.Warn("Failed to persist default patterns", zap.Error(saveErr))
			}
		} else {
			l.logger.Warn("Failed to read pattern file, using defaults",
				zap.String("path", l.path), zap.Error(err))
			l.setEntries(DefaultEntries())
		}
		return
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		l.logger.Warn("Pattern file is not valid JSON, using defaults",
			zap.String("path", l.path), zap.Error(err))
		l.setEntries(DefaultEntries())
		return
	}

	l.setEntries(entries)
	l.logger.Info("Loaded pattern library",
		zap.String("path", l.path), zap.Int("patterns", l.Len()))
}

// setEntries compiles and installs the given entries, preserving order.
func (l *Library) setEntries(entries []Entry) {
	compiled := make([]CompiledEntry, 0, len(entries))
	for _, e := range entries {
		re, err := regexp.Compile(e.Pattern)
		if err != nil {
			l.logger.Warn("Skipping pattern with invalid regex",
				zap.String("pattern", e.Pattern), zap.Error(err))
			continue
		}
		compiled = append(compiled, CompiledEntry{Entry: e, Regex: re})
	}

	l.mu.Lock()
	l.entries = compiled
	l.mu.Unlock()
}

// Save persists the current in-memory entries to the pattern file.
func (l *Library) Save() error {
	l.mu.RLock()
	entries := make([]Entry, len(l.entries))
	for i, ce := range l.entries {
		entries[i] = ce.Entry
	}
	l.mu.RUnlock()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pattern library: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("write pattern file: %w", err)
	}
	return nil
}

// Entries returns the compiled entries in order.
func (l *Library) Entries() []CompiledEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]CompiledEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of loaded entries.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
