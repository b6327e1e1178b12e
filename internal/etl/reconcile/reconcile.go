// Package reconcile implements the download-then-diff-then-create loop
// shared by every sync job: records whose natural key already exists
// remotely are skipped, the rest are created one at a time, and every
// outcome lands in the run log and manifest.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"nemoctl/internal/etl/lookup"
	"nemoctl/internal/infrastructure/artifact"
	apperrors "nemoctl/internal/shared/errors"
	"nemoctl/internal/shared/logger"
)

// State is the terminal outcome of one record. Every record starts Pending
// and ends in exactly one of these; there are no cross-run retries.
// Rerunning the whole job is the retry mechanism.
type State string

const (
	StateSkipped    State = "skipped_existing"
	StateUnresolved State = "unresolved"
	StateCreated    State = "created"
	StateFailed     State = "failed"
)

// Item is one normalized record with its natural key.
type Item[T any] struct {
	Key    string
	Record T
}

// CreateFunc builds the destination payload for a record, resolving foreign
// keys against the live lookups, and issues the create call. It returns the
// remote ID on success. An unresolved dependency is reported with an
// ErrorTypeUnresolved error and fails only that record.
type CreateFunc[T any] func(ctx context.Context, record T) (int, error)

// Reconciler runs the sequential create loop for one entity.
type Reconciler[T any] struct {
	// Lookup is the working copy of the entity's natural-key table.
	// Created records are appended so later records in the same run
	// resolve against them; the caller persists it afterwards.
	Lookup   lookup.Table
	Create   CreateFunc[T]
	Recorder *artifact.RunRecorder
	Log      logger.Interface
	// Delay between create calls, to avoid hammering the API.
	Delay time.Duration
}

// Run processes the records in order. It returns early only on a fatal
// authentication error or context cancellation; every other failure is
// recorded per record and the loop continues.
func (r *Reconciler[T]) Run(ctx context.Context, items []Item[T]) (artifact.Summary, error) {
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return r.Recorder.Summary(), err
		}

		if r.Lookup.Has(item.Key) {
			r.Recorder.RecordSkipped(item.Key)
			continue
		}

		id, err := r.Create(ctx, item.Record)
		switch {
		case err == nil:
			r.Lookup.Add(item.Key, id)
			r.Recorder.RecordCreated(item.Key, id)
			r.Log.Infow("created record", "entity_key", item.Key, "id", id,
				"progress", progress(i, len(items)))
		case apperrors.IsAuth(err):
			// No subsequent call can succeed; abort the whole run.
			r.Recorder.RecordFailed(item.Key, string(apperrors.ErrorTypeAuth), err.Error())
			r.Log.Errorw("authentication failed, aborting run", "error", err)
			return r.Recorder.Summary(), err
		case apperrors.IsType(err, apperrors.ErrorTypeUnresolved):
			r.Recorder.RecordUnresolved(item.Key, err.Error())
			r.Log.Warnw("record has unresolved dependency", "entity_key", item.Key, "error", err)
		default:
			r.Recorder.RecordFailed(item.Key, string(apperrors.GetType(err)), err.Error())
			r.Log.Warnw("record failed", "entity_key", item.Key, "error", err)
		}

		if r.Delay > 0 && i < len(items)-1 {
			select {
			case <-ctx.Done():
				return r.Recorder.Summary(), ctx.Err()
			case <-time.After(r.Delay):
			}
		}
	}

	return r.Recorder.Summary(), nil
}

func progress(i, total int) string {
	return fmt.Sprintf("%d/%d", i+1, total)
}
