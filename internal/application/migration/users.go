package migration

import (
	"context"
	"time"

	"nemoctl/internal/etl/normalize"
	"nemoctl/internal/etl/reconcile"
	"nemoctl/internal/etl/sheet"
	"nemoctl/internal/infrastructure/artifact"
	"nemoctl/internal/infrastructure/nemo"
	apperrors "nemoctl/internal/shared/errors"
)

// defaultUserType is the standard NEMO user type for migrated lab members.
const defaultUserType = 1

// SyncUsers creates the qualified users missing from NEMO. Every workbook
// whose name contains "qualified users" is read; users deduplicate on email
// (the users lookup also carries usernames, so either key skips).
func (r *Runner) SyncUsers(ctx context.Context) (artifact.Summary, error) {
	if err := r.client.Ping(ctx, nemo.PathUsers); err != nil {
		return artifact.Summary{}, err
	}

	paths, err := r.findWorkbooks("qualified users")
	if err != nil {
		return artifact.Summary{}, err
	}
	if len(paths) == 0 {
		return artifact.Summary{}, apperrors.NewInternalError(
			"no qualified-users workbooks found in " + r.cfg.Data.SheetDir())
	}

	var rows []sheet.Row
	for _, path := range paths {
		fileRows, err := sheet.ReadRows(path, sheet.UserAliases)
		if err != nil {
			return artifact.Summary{}, err
		}
		r.log.Infow("loaded workbook", "path", path, "rows", len(fileRows))
		rows = append(rows, fileRows...)
	}

	res := normalize.Users(rows)
	r.log.Infow("normalized users", "records", len(res.Records), "dropped", res.Dropped)

	users, err := r.lookupTable("users")
	if err != nil {
		return artifact.Summary{}, err
	}
	projects, err := r.lookupTable("projects")
	if err != nil {
		return artifact.Summary{}, err
	}

	items := make([]reconcile.Item[normalize.UserRecord], 0, len(res.Records))
	for _, rec := range res.Records {
		items = append(items, reconcile.Item[normalize.UserRecord]{Key: rec.Key(), Record: rec})
	}

	create := func(ctx context.Context, rec normalize.UserRecord) (int, error) {
		// The lookup carries both emails and usernames; a user present
		// under the other key form must not be recreated.
		if _, ok := users.Get(rec.Username); ok {
			return 0, apperrors.NewConflictError("username already exists: " + rec.Username)
		}

		projectIDs := make([]int, 0, len(rec.ProjectPTAs))
		for _, pta := range rec.ProjectPTAs {
			id, ok := projects.Get(pta)
			if !ok {
				return 0, apperrors.NewUnresolvedError("project membership not found: PTA " + pta)
			}
			projectIDs = append(projectIDs, id)
		}

		created, err := r.client.CreateUser(ctx, &nemo.User{
			Username:   rec.Username,
			FirstName:  rec.FirstName,
			LastName:   rec.LastName,
			Email:      rec.Email,
			IsActive:   true,
			Type:       defaultUserType,
			DateJoined: time.Now().Format(time.RFC3339),
			Projects:   projectIDs,
		})
		if err != nil {
			return 0, err
		}
		// Future runs must skip this user under either key.
		users.Add(rec.Username, created.ID)
		return created.ID, nil
	}

	return runReconcile(ctx, r, "users", "users", users, res.Dropped, items, create)
}
