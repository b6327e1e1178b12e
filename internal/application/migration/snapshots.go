package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"nemoctl/internal/etl/lookup"
	"nemoctl/internal/infrastructure/nemo"
)

// snapshotResource describes one remote collection: where to fetch it, how
// to derive its natural-key lookup, and optionally which columns to mirror
// into CSV for manual inspection.
type snapshotResource struct {
	name   string
	path   string
	derive func(records []json.RawMessage) (lookup.Table, error)
	csv    func(records []json.RawMessage) ([]string, [][]string, error)
}

var snapshotResources = []snapshotResource{
	{
		name:   "accounts",
		path:   nemo.PathAccounts,
		derive: deriveByName[nemo.Account](func(a nemo.Account) (string, int) { return a.Name, a.ID }),
		csv: func(records []json.RawMessage) ([]string, [][]string, error) {
			accounts, err := nemo.DecodeList[nemo.Account](records)
			if err != nil {
				return nil, nil, err
			}
			rows := make([][]string, 0, len(accounts))
			for _, a := range accounts {
				rows = append(rows, []string{strconv.Itoa(a.ID), a.Name, strconv.Itoa(a.Type)})
			}
			return []string{"id", "name", "type"}, rows, nil
		},
	},
	{
		name:   "projects",
		path:   nemo.PathProjects,
		derive: deriveByName[nemo.Project](func(p nemo.Project) (string, int) { return p.ApplicationIdentifier, p.ID }),
	},
	{
		name: "users",
		path: nemo.PathUsers,
		// Users deduplicate on either username or email; one table carries
		// both key forms.
		derive: func(records []json.RawMessage) (lookup.Table, error) {
			users, err := nemo.DecodeList[nemo.User](records)
			if err != nil {
				return nil, err
			}
			t := make(lookup.Table, len(users)*2)
			for _, u := range users {
				t.Add(u.Username, u.ID)
				t.Add(u.Email, u.ID)
			}
			return t, nil
		},
		csv: func(records []json.RawMessage) ([]string, [][]string, error) {
			users, err := nemo.DecodeList[nemo.User](records)
			if err != nil {
				return nil, nil, err
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{strconv.Itoa(u.ID), u.Username, u.Email, u.FirstName, u.LastName})
			}
			return []string{"id", "username", "email", "first_name", "last_name"}, rows, nil
		},
	},
	{
		name:   "tools",
		path:   nemo.PathTools,
		derive: deriveByName[nemo.Tool](func(t nemo.Tool) (string, int) { return t.Name, t.ID }),
	},
	{
		name:   "rate_categories",
		path:   nemo.PathRateCategories,
		derive: deriveByName[nemo.RateCategory](func(c nemo.RateCategory) (string, int) { return c.Name, c.ID }),
	},
	{
		name:   "rate_types",
		path:   nemo.PathRateTypes,
		derive: deriveByName[nemo.RateType](func(t nemo.RateType) (string, int) { return t.Type, t.ID }),
	},
	{
		name: "rates",
		path: nemo.PathRates,
		derive: func(records []json.RawMessage) (lookup.Table, error) {
			rates, err := nemo.DecodeList[nemo.Rate](records)
			if err != nil {
				return nil, err
			}
			t := make(lookup.Table, len(rates))
			for _, rate := range rates {
				t.Add(rateKey(rate.Type, rate.Category), rate.ID)
			}
			return t, nil
		},
	},
	{
		name:   "interlock_card_categories",
		path:   nemo.PathInterlockCardCategories,
		derive: deriveByName[nemo.InterlockCardCategory](func(c nemo.InterlockCardCategory) (string, int) { return c.Name, c.ID }),
	},
	{
		name: "interlock_cards",
		path: nemo.PathInterlockCards,
		derive: func(records []json.RawMessage) (lookup.Table, error) {
			cards, err := nemo.DecodeList[nemo.InterlockCard](records)
			if err != nil {
				return nil, err
			}
			t := make(lookup.Table, len(cards))
			for _, c := range cards {
				t.Add(fmt.Sprintf("%s:%d", c.Server, c.Port), c.ID)
			}
			return t, nil
		},
	},
}

func deriveByName[T any](keyID func(T) (string, int)) func([]json.RawMessage) (lookup.Table, error) {
	return func(records []json.RawMessage) (lookup.Table, error) {
		items, err := nemo.DecodeList[T](records)
		if err != nil {
			return nil, err
		}
		t := make(lookup.Table, len(items))
		for _, item := range items {
			key, id := keyID(item)
			t.Add(key, id)
		}
		return t, nil
	}
}

// rateKey is the composite natural key of a billing rate: a rate is unique
// per (type, category) pair within a migration batch.
func rateKey(typeID, categoryID int) string {
	return fmt.Sprintf("%d:%d", typeID, categoryID)
}

// SnapshotNames lists the resources the snapshot command accepts.
func SnapshotNames() []string {
	names := make([]string, 0, len(snapshotResources))
	for _, res := range snapshotResources {
		names = append(names, res.name)
	}
	return names
}

// Snapshot downloads one remote collection, overwrites its raw dump and
// derived lookup, and refreshes the in-process lookup cache.
func (r *Runner) Snapshot(ctx context.Context, name string) error {
	for _, res := range snapshotResources {
		if res.name == name {
			return r.snapshot(ctx, res)
		}
	}
	return fmt.Errorf("unknown snapshot resource %q (valid: %v)", name, SnapshotNames())
}

// SnapshotAll downloads every collection. A fatal auth error stops the
// whole run; other failures move on to the next resource.
func (r *Runner) SnapshotAll(ctx context.Context) error {
	var firstErr error
	for _, res := range snapshotResources {
		if err := r.snapshot(ctx, res); err != nil {
			if isFatal(err) {
				return err
			}
			r.log.Errorw("snapshot failed", "resource", res.name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Runner) snapshot(ctx context.Context, res snapshotResource) error {
	log := r.log.Named("snapshot").With("resource", res.name)
	log.Infow("downloading collection", "path", res.path)

	records, err := r.client.ListAll(ctx, res.path)
	if err != nil {
		if len(records) == 0 {
			return err
		}
		// Partial snapshot: usable for inspection, but deriving a lookup
		// from it would make missing entities look brand-new.
		log.Warnw("partial download, keeping previous lookup", "downloaded", len(records), "error", err)
		if _, werr := r.store.WriteSnapshot(res.name, records); werr != nil {
			return werr
		}
		return err
	}

	snapPath, err := r.store.WriteSnapshot(res.name, records)
	if err != nil {
		return err
	}

	table, err := res.derive(records)
	if err != nil {
		return err
	}
	lookupPath, err := r.store.WriteLookup(res.name, table)
	if err != nil {
		return err
	}
	r.lookups[res.name] = table

	if res.csv != nil {
		header, rows, err := res.csv(records)
		if err != nil {
			return err
		}
		if _, err := r.store.WriteCSV(res.name, header, rows); err != nil {
			return err
		}
	}

	log.Infow("snapshot complete", "records", len(records),
		"snapshot", snapPath, "lookup", lookupPath, "keys", len(table))
	return nil
}
