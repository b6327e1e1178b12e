package migration

import (
	"context"

	"nemoctl/internal/etl/normalize"
	"nemoctl/internal/etl/reconcile"
	"nemoctl/internal/etl/sheet"
	"nemoctl/internal/infrastructure/artifact"
	"nemoctl/internal/infrastructure/nemo"
	apperrors "nemoctl/internal/shared/errors"
)

// SyncProjects creates the projects missing from NEMO, keyed by PTA. The
// owning account must already exist, created either by a previous run or by
// the accounts stage of this process.
func (r *Runner) SyncProjects(ctx context.Context) (artifact.Summary, error) {
	if err := r.client.Ping(ctx, nemo.PathProjects); err != nil {
		return artifact.Summary{}, err
	}

	rows, err := r.readWorkbook(userInfoWorkbook, sheet.ProjectAliases)
	if err != nil {
		return artifact.Summary{}, err
	}
	res := normalize.Projects(rows)
	r.log.Infow("normalized projects", "records", len(res.Records), "dropped", res.Dropped)

	projects, err := r.lookupTable("projects")
	if err != nil {
		return artifact.Summary{}, err
	}
	accounts, err := r.lookupTable("accounts")
	if err != nil {
		return artifact.Summary{}, err
	}
	rateCategories, err := r.lookupTable("rate_categories")
	if err != nil {
		return artifact.Summary{}, err
	}

	items := make([]reconcile.Item[normalize.ProjectRecord], 0, len(res.Records))
	for _, rec := range res.Records {
		items = append(items, reconcile.Item[normalize.ProjectRecord]{Key: rec.Key(), Record: rec})
	}

	create := func(ctx context.Context, rec normalize.ProjectRecord) (int, error) {
		accountID, ok := accounts.Get(rec.AccountName)
		if !ok {
			return 0, apperrors.NewUnresolvedError(
				"owning account not found: " + rec.AccountName)
		}
		var categoryID *int
		if id, ok := rateCategories.Get(string(rec.Category)); ok {
			categoryID = &id
		}
		created, err := r.client.CreateProject(ctx, &nemo.Project{
			Name:                  rec.Name,
			ApplicationIdentifier: rec.PTA,
			Account:               &accountID,
			Category:              categoryID,
			Active:                true,
		})
		if err != nil {
			return 0, err
		}
		return created.ID, nil
	}

	return runReconcile(ctx, r, "projects", "projects", projects, res.Dropped, items, create)
}
