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

// userInfoWorkbook is the SNSF export carrying PI, account, and project
// columns; both the accounts and the projects sync read it.
const userInfoWorkbook = "User Information.xlsx"

// SyncAccounts creates the accounts missing from NEMO. An account's type is
// its rate category, resolved by the mapped category name.
func (r *Runner) SyncAccounts(ctx context.Context) (artifact.Summary, error) {
	if err := r.client.Ping(ctx, nemo.PathAccounts); err != nil {
		return artifact.Summary{}, err
	}

	rows, err := r.readWorkbook(userInfoWorkbook, sheet.AccountAliases)
	if err != nil {
		return artifact.Summary{}, err
	}
	res := normalize.Accounts(rows)
	r.log.Infow("normalized accounts", "records", len(res.Records), "dropped", res.Dropped)

	accounts, err := r.lookupTable("accounts")
	if err != nil {
		return artifact.Summary{}, err
	}
	rateCategories, err := r.lookupTable("rate_categories")
	if err != nil {
		return artifact.Summary{}, err
	}

	items := make([]reconcile.Item[normalize.AccountRecord], 0, len(res.Records))
	for _, rec := range res.Records {
		items = append(items, reconcile.Item[normalize.AccountRecord]{Key: rec.Key(), Record: rec})
	}

	create := func(ctx context.Context, rec normalize.AccountRecord) (int, error) {
		categoryID, ok := rateCategories.Get(string(rec.Category))
		if !ok {
			return 0, apperrors.NewUnresolvedError(
				"rate category not found: " + string(rec.Category))
		}
		created, err := r.client.CreateAccount(ctx, &nemo.Account{
			Name:   rec.Name,
			Type:   categoryID,
			Active: true,
		})
		if err != nil {
			return 0, err
		}
		return created.ID, nil
	}

	return runReconcile(ctx, r, "accounts", "accounts", accounts, res.Dropped, items, create)
}
