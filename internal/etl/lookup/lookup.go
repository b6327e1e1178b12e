// Package lookup holds the natural-key → remote-ID tables used to detect
// entities that already exist in NEMO. Tables are derived from snapshots,
// persisted as JSON, and appended to in-memory as a run creates records.
package lookup

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Table maps a normalized natural key to a remote ID.
type Table map[string]int

// NormalizeKey trims and case-folds a natural key. All membership checks go
// through this so "Acme Lab " and "acme lab" collapse to one entity.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Has reports whether the key is present.
func (t Table) Has(key string) bool {
	_, ok := t[NormalizeKey(key)]
	return ok
}

// Get returns the remote ID for the key.
func (t Table) Get(key string) (int, bool) {
	id, ok := t[NormalizeKey(key)]
	return id, ok
}

// Add records a key → ID pair. Used both when deriving a table from a
// snapshot and when appending a record created earlier in the same run.
func (t Table) Add(key string, id int) {
	k := NormalizeKey(key)
	if k == "" {
		return
	}
	t[k] = id
}

// Load reads a persisted lookup table.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse lookup %s: %w", path, err)
	}
	// Keys written by older runs may predate key normalization.
	normalized := make(Table, len(t))
	for k, id := range t {
		normalized.Add(k, id)
	}
	return normalized, nil
}

// Save persists the table, overwriting any previous version.
func Save(path string, t Table) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent copy so a run can append created records
// without mutating the snapshot-derived table.
func (t Table) Clone() Table {
	c := make(Table, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}
