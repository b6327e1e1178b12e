// Package migration wires the three pipeline stages together: remote
// snapshots, spreadsheet normalization, and the reconciling create loop.
package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nemoctl/internal/etl/lookup"
	"nemoctl/internal/etl/sheet"
	"nemoctl/internal/infrastructure/artifact"
	"nemoctl/internal/infrastructure/config"
	"nemoctl/internal/infrastructure/nemo"
	"nemoctl/internal/shared/logger"
)

// Runner owns the API client, the artifact store, and the lookup tables for
// one process. Lookups are cached so entities created by an earlier stage
// of the same process (sync all) resolve in later stages without a fresh
// download.
type Runner struct {
	client  *nemo.Client
	store   *artifact.Store
	cfg     *config.Config
	log     logger.Interface
	lookups map[string]lookup.Table
}

func NewRunner(cfg *config.Config, log logger.Interface) (*Runner, error) {
	store, err := artifact.NewStore(&cfg.Data)
	if err != nil {
		return nil, err
	}

	client := nemo.NewClient(cfg.API.BaseURL, cfg.API.Token,
		nemo.WithTimeout(cfg.API.Timeout),
		nemo.WithRetry(cfg.API.Retry.Attempts, cfg.API.Retry.BaseDelay),
		nemo.WithLogger(log.Named("nemo")),
	)

	return &Runner{
		client:  client,
		store:   store,
		cfg:     cfg,
		log:     log,
		lookups: make(map[string]lookup.Table),
	}, nil
}

// lookupTable returns the process-wide working copy of a lookup, loading it
// from disk on first use.
func (r *Runner) lookupTable(resource string) (lookup.Table, error) {
	if t, ok := r.lookups[resource]; ok {
		return t, nil
	}
	t, err := r.store.ReadLookup(resource)
	if err != nil {
		return nil, err
	}
	r.lookups[resource] = t
	return t, nil
}

// readWorkbook loads one spreadsheet from the conventional data directory.
func (r *Runner) readWorkbook(filename string, aliases sheet.Aliases) ([]sheet.Row, error) {
	path := filepath.Join(r.cfg.Data.SheetDir(), filename)
	rows, err := sheet.ReadRows(path, aliases)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	r.log.Infow("loaded workbook", "path", path, "rows", len(rows))
	return rows, nil
}

// findWorkbooks returns the spreadsheets in the data directory whose name
// contains the given fragment (case-insensitive), e.g. "qualified users".
func (r *Runner) findWorkbooks(fragment string) ([]string, error) {
	dir := r.cfg.Data.SheetDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list spreadsheet dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
			continue
		}
		if strings.Contains(strings.ToLower(name), strings.ToLower(fragment)) {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
