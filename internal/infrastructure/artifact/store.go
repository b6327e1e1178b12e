// Package artifact persists the local outputs of a migration run: raw JSON
// snapshots, derived lookup tables, CSV mirrors for manual inspection, and
// per-run log/manifest pairs.
package artifact

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nemoctl/internal/etl/lookup"
	"nemoctl/internal/shared/config"
)

type Store struct {
	snapshotDir string
	lookupDir   string
	runDir      string
}

// NewStore creates the artifact directories if they do not exist yet.
func NewStore(data *config.DataConfig) (*Store, error) {
	s := &Store{
		snapshotDir: data.SnapshotDir(),
		lookupDir:   data.LookupDir(),
		runDir:      data.RunDir(),
	}
	for _, dir := range []string{s.snapshotDir, s.lookupDir, s.runDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create artifact dir %s: %w", dir, err)
		}
	}
	return s, nil
}

// WriteSnapshot overwrites the raw JSON dump for a resource. Snapshots are
// not versioned; each run replaces the previous one.
func (s *Store) WriteSnapshot(resource string, records []json.RawMessage) (string, error) {
	path := filepath.Join(s.snapshotDir, fmt.Sprintf("nemo_%s.json", resource))
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCSV writes a CSV mirror of selected snapshot columns.
func (s *Store) WriteCSV(resource string, header []string, rows [][]string) (string, error) {
	path := filepath.Join(s.snapshotDir, fmt.Sprintf("nemo_%s.csv", resource))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", err
	}
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	w.Flush()
	return path, w.Error()
}

// WriteLookup overwrites the persisted lookup table for a resource.
func (s *Store) WriteLookup(resource string, t lookup.Table) (string, error) {
	path := s.LookupPath(resource)
	if err := lookup.Save(path, t); err != nil {
		return "", err
	}
	return path, nil
}

// ReadLookup loads a previously written lookup table. A missing file is an
// error: the snapshot command for that resource has to run first.
func (s *Store) ReadLookup(resource string) (lookup.Table, error) {
	t, err := lookup.Load(s.LookupPath(resource))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("lookup for %q not found: run 'nemoctl snapshot %s' first", resource, resource)
	}
	return t, err
}

func (s *Store) LookupPath(resource string) string {
	return filepath.Join(s.lookupDir, fmt.Sprintf("%s_lookup.json", resource))
}
