package migration

import (
	"context"
	"fmt"

	"nemoctl/internal/etl/lookup"
	"nemoctl/internal/etl/normalize"
	"nemoctl/internal/etl/reconcile"
	"nemoctl/internal/etl/sheet"
	"nemoctl/internal/infrastructure/artifact"
	"nemoctl/internal/infrastructure/nemo"
	apperrors "nemoctl/internal/shared/errors"
)

// snsfRateTypes maps the legacy equipment rate names to destination billing
// rate type strings.
var snsfRateTypes = map[string]string{
	"equipment_hourly_rate":   "TOOL_USAGE",
	"equipment_staff_rate":    "STAFF_CHARGE",
	"equipment_training_rate": "TOOL_TRAINING_INDIVIDUAL",
}

// SyncRates creates the billing rates missing from NEMO from the rates
// report workbooks. A rate's natural key is its resolved (type, category)
// pair, so resolution happens before the existence check.
func (r *Runner) SyncRates(ctx context.Context) (artifact.Summary, error) {
	if err := r.client.Ping(ctx, nemo.PathRates); err != nil {
		return artifact.Summary{}, err
	}

	paths, err := r.findWorkbooks("rates_report")
	if err != nil {
		return artifact.Summary{}, err
	}
	if len(paths) == 0 {
		return artifact.Summary{}, apperrors.NewInternalError(
			"no rates_report workbooks found in " + r.cfg.Data.SheetDir())
	}

	var rows []sheet.Row
	for _, path := range paths {
		fileRows, err := sheet.ReadRows(path, sheet.RateAliases)
		if err != nil {
			return artifact.Summary{}, err
		}
		r.log.Infow("loaded workbook", "path", path, "rows", len(fileRows))
		rows = append(rows, fileRows...)
	}

	res := normalize.Rates(rows)
	r.log.Infow("normalized rates", "records", len(res.Records), "dropped", res.Dropped)

	rates, err := r.lookupTable("rates")
	if err != nil {
		return artifact.Summary{}, err
	}
	rateTypes, err := r.lookupTable("rate_types")
	if err != nil {
		return artifact.Summary{}, err
	}
	rateCategories, err := r.lookupTable("rate_categories")
	if err != nil {
		return artifact.Summary{}, err
	}

	// Resolve each record's remote key where possible so the existence
	// check can run against the downloaded rates lookup. Unresolvable
	// records keep their local key and fail individually in create.
	items := make([]reconcile.Item[normalize.RateRecord], 0, len(res.Records))
	for _, rec := range res.Records {
		key := rec.Key()
		if typeID, catID, err := resolveRate(rec, rateTypes, rateCategories); err == nil {
			key = rateKey(typeID, catID)
		}
		items = append(items, reconcile.Item[normalize.RateRecord]{Key: key, Record: rec})
	}

	create := func(ctx context.Context, rec normalize.RateRecord) (int, error) {
		typeID, catID, err := resolveRate(rec, rateTypes, rateCategories)
		if err != nil {
			return 0, err
		}
		created, err := r.client.CreateRate(ctx, &nemo.Rate{
			Type:     typeID,
			Category: catID,
			Rate:     rec.Amount,
			Notes: fmt.Sprintf("Migrated from SNSF: %s + %s = $%.2f",
				rec.RateName, rec.RateClass, rec.Amount),
			Active: true,
		})
		if err != nil {
			return 0, err
		}
		return created.ID, nil
	}

	return runReconcile(ctx, r, "rates", "rates", rates, res.Dropped, items, create)
}

// resolveRate maps a legacy rate record to remote type and category IDs.
func resolveRate(rec normalize.RateRecord, rateTypes, rateCategories lookup.Table) (int, int, error) {
	nemoType, ok := snsfRateTypes[rec.RateName]
	if !ok {
		return 0, 0, apperrors.NewUnresolvedError("no rate type mapping for: " + rec.RateName)
	}
	typeID, ok := rateTypes.Get(nemoType)
	if !ok {
		return 0, 0, apperrors.NewUnresolvedError("rate type not found in NEMO: " + nemoType)
	}
	category := normalize.MapCategory(rec.RateClass)
	catID, ok := rateCategories.Get(string(category))
	if !ok {
		return 0, 0, apperrors.NewUnresolvedError("rate category not found in NEMO: " + string(category))
	}
	return typeID, catID, nil
}

// CreateRateType creates a single billing rate type, e.g. TOOL_STAFF_CHARGE.
// It is idempotent against the rate_types lookup like any other create.
func (r *Runner) CreateRateType(ctx context.Context, typeName string, categorySpecific, itemSpecific bool) error {
	rateTypes, err := r.lookupTable("rate_types")
	if err != nil {
		return err
	}
	if _, ok := rateTypes.Get(typeName); ok {
		r.log.Infow("rate type already exists, nothing to do", "type", typeName)
		return nil
	}

	created, err := r.client.CreateRateType(ctx, &nemo.RateType{
		Type:             typeName,
		CategorySpecific: categorySpecific,
		ItemSpecific:     itemSpecific,
	})
	if err != nil {
		return err
	}

	rateTypes.Add(typeName, created.ID)
	if _, err := r.store.WriteLookup("rate_types", rateTypes); err != nil {
		return err
	}
	r.log.Infow("created rate type", "type", typeName, "id", created.ID)
	return nil
}
