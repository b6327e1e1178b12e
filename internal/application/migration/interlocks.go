package migration

import (
	"context"
	"fmt"

	"nemoctl/internal/etl/normalize"
	"nemoctl/internal/etl/reconcile"
	"nemoctl/internal/etl/sheet"
	"nemoctl/internal/infrastructure/artifact"
	"nemoctl/internal/infrastructure/nemo"
	apperrors "nemoctl/internal/shared/errors"
)

// portProtocols maps an interlock's TCP port to the relay protocol, which
// is also the interlock card category name in NEMO. Ports outside this
// table cannot be categorized and fail as unresolved.
var portProtocols = map[int]string{
	2101: "ProXr",
	80:   "WebRelayHttp",
}

// SyncInterlocks creates the interlock cards missing from NEMO, read from
// the same facility tool workbooks as the tools sync and keyed by
// hostname:port. Cards are created disabled; enabling is a manual step.
func (r *Runner) SyncInterlocks(ctx context.Context) (artifact.Summary, error) {
	if err := r.client.Ping(ctx, nemo.PathInterlockCards); err != nil {
		return artifact.Summary{}, err
	}

	sheets, err := r.readToolWorkbooks(sheet.InterlockAliases)
	if err != nil {
		return artifact.Summary{}, err
	}
	var rows []sheet.Row
	for _, fs := range sheets {
		rows = append(rows, fs.Rows...)
	}

	res := normalize.Interlocks(rows)
	r.log.Infow("normalized interlocks", "records", len(res.Records), "dropped", res.Dropped)

	cards, err := r.lookupTable("interlock_cards")
	if err != nil {
		return artifact.Summary{}, err
	}
	categories, err := r.lookupTable("interlock_card_categories")
	if err != nil {
		return artifact.Summary{}, err
	}

	items := make([]reconcile.Item[normalize.InterlockRecord], 0, len(res.Records))
	for _, rec := range res.Records {
		items = append(items, reconcile.Item[normalize.InterlockRecord]{Key: rec.Key(), Record: rec})
	}

	create := func(ctx context.Context, rec normalize.InterlockRecord) (int, error) {
		protocol, ok := portProtocols[rec.Port]
		if !ok {
			return 0, apperrors.NewUnresolvedError(
				fmt.Sprintf("no protocol mapping for port %d", rec.Port))
		}
		categoryID, ok := categories.Get(protocol)
		if !ok {
			return 0, apperrors.NewUnresolvedError(
				"interlock card category not found: " + protocol)
		}
		created, err := r.client.CreateInterlockCard(ctx, &nemo.InterlockCard{
			Name:     rec.Name,
			Server:   rec.Hostname,
			Port:     rec.Port,
			Enabled:  false,
			Category: categoryID,
		})
		if err != nil {
			return 0, err
		}
		return created.ID, nil
	}

	return runReconcile(ctx, r, "interlocks", "interlock_cards", cards, res.Dropped, items, create)
}
