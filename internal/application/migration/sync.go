package migration

import (
	"context"
	"errors"

	"nemoctl/internal/etl/lookup"
	"nemoctl/internal/etl/reconcile"
	"nemoctl/internal/infrastructure/artifact"
	apperrors "nemoctl/internal/shared/errors"
)

// SyncOrder is the documented run order: dependencies are created before
// dependents by running entities in this sequence, not by any in-process
// scheduling.
var SyncOrder = []string{"accounts", "projects", "users", "tools", "rates", "interlocks"}

// Sync dispatches one entity sync by name.
func (r *Runner) Sync(ctx context.Context, entity string) (artifact.Summary, error) {
	switch entity {
	case "accounts":
		return r.SyncAccounts(ctx)
	case "projects":
		return r.SyncProjects(ctx)
	case "users":
		return r.SyncUsers(ctx)
	case "tools":
		return r.SyncTools(ctx)
	case "rates":
		return r.SyncRates(ctx)
	case "interlocks":
		return r.SyncInterlocks(ctx)
	default:
		return artifact.Summary{}, apperrors.NewInternalError("unknown sync entity: " + entity)
	}
}

// SyncAll runs every entity sync in the fixed dependency order. Only a
// fatal error (bad token, cancellation) stops the sequence.
func (r *Runner) SyncAll(ctx context.Context) error {
	for _, entity := range SyncOrder {
		if _, err := r.Sync(ctx, entity); err != nil {
			if isFatal(err) {
				return err
			}
			r.log.Errorw("sync finished with errors, continuing", "entity", entity, "error", err)
		}
	}
	return nil
}

func isFatal(err error) bool {
	return apperrors.IsAuth(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// runReconcile is the shared tail of every sync job: run the create loop,
// persist the updated lookup, and close out the run log and manifest.
func runReconcile[T any](ctx context.Context, r *Runner, entity, lookupName string,
	table lookup.Table, dropped int, items []reconcile.Item[T],
	create reconcile.CreateFunc[T]) (artifact.Summary, error) {

	rec, err := r.store.NewRun(entity)
	if err != nil {
		return artifact.Summary{}, err
	}
	rec.RecordDropped(dropped)

	recon := &reconcile.Reconciler[T]{
		Lookup:   table,
		Create:   create,
		Recorder: rec,
		Log:      r.log.Named("sync." + entity),
		Delay:    r.cfg.API.CreateDelay,
	}

	summary, runErr := recon.Run(ctx, items)

	// The working lookup now includes everything created this run; persist
	// it so a rerun (the retry mechanism) skips those records.
	if _, err := r.store.WriteLookup(lookupName, table); err != nil && runErr == nil {
		runErr = err
	}

	manifestPath, closeErr := rec.Close()
	if closeErr != nil && runErr == nil {
		runErr = closeErr
	}

	r.log.Infow("sync finished",
		"entity", entity,
		"created", summary.Created,
		"skipped_existing", summary.Skipped,
		"unresolved", summary.Unresolved,
		"failed", summary.Failed,
		"dropped_rows", summary.Dropped,
		"manifest", manifestPath,
	)
	return summary, runErr
}
