package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nemoctl/internal/etl/lookup"
	"nemoctl/internal/infrastructure/artifact"
	"nemoctl/internal/shared/config"
	apperrors "nemoctl/internal/shared/errors"
	"nemoctl/internal/shared/logger"
)

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func newTestRecorder(t *testing.T) *artifact.RunRecorder {
	t.Helper()
	store, err := artifact.NewStore(&config.DataConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	rec, err := store.NewRun("accounts")
	require.NoError(t, err)
	return rec
}

type fakeRecord struct {
	name string
}

func TestReconciler_Run(t *testing.T) {
	rec := newTestRecorder(t)

	table := lookup.Table{}
	table.Add("existing", 1)

	var createdNames []string
	r := &Reconciler[fakeRecord]{
		Lookup:   table,
		Recorder: rec,
		Log:      newNopLogger(),
		Create: func(ctx context.Context, record fakeRecord) (int, error) {
			createdNames = append(createdNames, record.name)
			return 100 + len(createdNames), nil
		},
	}

	items := []Item[fakeRecord]{
		{Key: "Existing", Record: fakeRecord{name: "existing"}},
		{Key: "fresh", Record: fakeRecord{name: "fresh"}},
	}

	summary, err := r.Run(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, []string{"fresh"}, createdNames)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Skipped)

	// Created records join the working lookup.
	id, ok := table.Get("fresh")
	require.True(t, ok)
	assert.Equal(t, 101, id)
}

func TestReconciler_Run_DuplicateKeyWithinRun(t *testing.T) {
	rec := newTestRecorder(t)

	calls := 0
	r := &Reconciler[fakeRecord]{
		Lookup:   lookup.Table{},
		Recorder: rec,
		Log:      newNopLogger(),
		Create: func(ctx context.Context, record fakeRecord) (int, error) {
			calls++
			return calls, nil
		},
	}

	// The second item resolves to the same key as the first; it has to be
	// skipped against the in-run addition, not created twice.
	items := []Item[fakeRecord]{
		{Key: "Acme Lab", Record: fakeRecord{}},
		{Key: "acme lab ", Record: fakeRecord{}},
	}

	summary, err := r.Run(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
}

func TestReconciler_Run_UnresolvedContinues(t *testing.T) {
	rec := newTestRecorder(t)

	r := &Reconciler[fakeRecord]{
		Lookup:   lookup.Table{},
		Recorder: rec,
		Log:      newNopLogger(),
		Create: func(ctx context.Context, record fakeRecord) (int, error) {
			if record.name == "orphan" {
				return 0, apperrors.NewUnresolvedError("account not found")
			}
			return 7, nil
		},
	}

	items := []Item[fakeRecord]{
		{Key: "orphan", Record: fakeRecord{name: "orphan"}},
		{Key: "good", Record: fakeRecord{name: "good"}},
	}

	summary, err := r.Run(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Unresolved)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Failed)
	assert.False(t, r.Lookup.Has("orphan"))
}

func TestReconciler_Run_RemoteValidationContinues(t *testing.T) {
	rec := newTestRecorder(t)

	r := &Reconciler[fakeRecord]{
		Lookup:   lookup.Table{},
		Recorder: rec,
		Log:      newNopLogger(),
		Create: func(ctx context.Context, record fakeRecord) (int, error) {
			if record.name == "bad" {
				return 0, apperrors.NewRemoteValidationError("rejected", `{"name": ["too long"]}`)
			}
			return 7, nil
		},
	}

	items := []Item[fakeRecord]{
		{Key: "bad", Record: fakeRecord{name: "bad"}},
		{Key: "good", Record: fakeRecord{name: "good"}},
	}

	summary, err := r.Run(context.Background(), items)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Created)
}

func TestReconciler_Run_AuthAborts(t *testing.T) {
	rec := newTestRecorder(t)

	calls := 0
	r := &Reconciler[fakeRecord]{
		Lookup:   lookup.Table{},
		Recorder: rec,
		Log:      newNopLogger(),
		Create: func(ctx context.Context, record fakeRecord) (int, error) {
			calls++
			return 0, apperrors.NewAuthError("bad token")
		},
	}

	items := []Item[fakeRecord]{
		{Key: "first", Record: fakeRecord{}},
		{Key: "second", Record: fakeRecord{}},
	}

	summary, err := r.Run(context.Background(), items)
	require.Error(t, err)
	assert.True(t, apperrors.IsAuth(err))

	// The loop must stop on the first record.
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, summary.Failed)
}

func TestReconciler_Run_ContextCanceled(t *testing.T) {
	rec := newTestRecorder(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Reconciler[fakeRecord]{
		Lookup:   lookup.Table{},
		Recorder: rec,
		Log:      newNopLogger(),
		Create: func(ctx context.Context, record fakeRecord) (int, error) {
			t.Fatal("create must not be called after cancellation")
			return 0, nil
		},
	}

	_, err := r.Run(ctx, []Item[fakeRecord]{{Key: "x", Record: fakeRecord{}}})
	assert.ErrorIs(t, err, context.Canceled)
}
