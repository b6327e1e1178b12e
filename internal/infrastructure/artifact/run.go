package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Summary is the per-run outcome count emitted at the end of every sync.
type Summary struct {
	Created    int `json:"created"`
	Skipped    int `json:"skipped_existing"`
	Unresolved int `json:"unresolved"`
	Failed     int `json:"failed"`
	Dropped    int `json:"dropped_rows"`
}

type CreatedRecord struct {
	Key string `json:"key"`
	ID  int    `json:"id"`
}

type Failure struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Manifest is the machine-readable record of one run, written next to the
// human-readable log file.
type Manifest struct {
	RunID      string          `json:"run_id"`
	Entity     string          `json:"entity"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Summary    Summary         `json:"summary"`
	Created    []CreatedRecord `json:"created"`
	Failures   []Failure       `json:"failures"`
}

// RunRecorder accumulates the log and manifest for one sync run. It is not
// safe for concurrent use; runs are strictly sequential.
type RunRecorder struct {
	entity   string
	runID    string
	started  time.Time
	logFile  *os.File
	logPath  string
	manifest Manifest
}

// NewRun opens a timestamped log file and starts a manifest for one entity.
func (s *Store) NewRun(entity string) (*RunRecorder, error) {
	started := time.Now()
	stamp := started.Format("20060102_150405")
	logPath := filepath.Join(s.runDir, fmt.Sprintf("%s_%s.log", entity, stamp))

	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log: %w", err)
	}

	rec := &RunRecorder{
		entity:  entity,
		runID:   uuid.NewString(),
		started: started,
		logFile: f,
		logPath: logPath,
		manifest: Manifest{
			RunID:     uuid.NewString(),
			Entity:    entity,
			StartedAt: started,
			Created:   []CreatedRecord{},
			Failures:  []Failure{},
		},
	}
	rec.manifest.RunID = rec.runID
	rec.Logf("run %s started for entity %q", rec.runID, entity)
	return rec, nil
}

// Logf appends a line to the run log file.
func (r *RunRecorder) Logf(format string, args ...any) {
	line := fmt.Sprintf("%s %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
	// Log write failures must not abort a migration mid-run.
	_, _ = r.logFile.WriteString(line)
}

func (r *RunRecorder) RecordCreated(key string, id int) {
	r.manifest.Created = append(r.manifest.Created, CreatedRecord{Key: key, ID: id})
	r.manifest.Summary.Created++
	r.Logf("created %q -> id %d", key, id)
}

func (r *RunRecorder) RecordSkipped(key string) {
	r.manifest.Summary.Skipped++
	r.Logf("skipped %q: already exists", key)
}

func (r *RunRecorder) RecordUnresolved(key, message string) {
	r.manifest.Failures = append(r.manifest.Failures, Failure{Key: key, Type: "unresolved", Message: message})
	r.manifest.Summary.Unresolved++
	r.Logf("unresolved %q: %s", key, message)
}

func (r *RunRecorder) RecordFailed(key, errType, message string) {
	r.manifest.Failures = append(r.manifest.Failures, Failure{Key: key, Type: errType, Message: message})
	r.manifest.Summary.Failed++
	r.Logf("failed %q: %s: %s", key, errType, message)
}

func (r *RunRecorder) RecordDropped(count int) {
	r.manifest.Summary.Dropped = count
	if count > 0 {
		r.Logf("normalization dropped %d row(s)", count)
	}
}

// RunID returns the identifier embedded in the log and manifest names.
func (r *RunRecorder) RunID() string {
	return r.runID
}

// Summary returns the counts accumulated so far.
func (r *RunRecorder) Summary() Summary {
	return r.manifest.Summary
}

// Close finalizes the log and writes the JSON manifest beside it.
func (r *RunRecorder) Close() (string, error) {
	r.manifest.FinishedAt = time.Now()
	s := r.manifest.Summary
	r.Logf("run %s finished: created=%d skipped=%d unresolved=%d failed=%d dropped=%d",
		r.runID, s.Created, s.Skipped, s.Unresolved, s.Failed, s.Dropped)

	if err := r.logFile.Close(); err != nil {
		return "", err
	}

	manifestPath := r.logPath[:len(r.logPath)-len(".log")] + ".json"
	data, err := json.MarshalIndent(r.manifest, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return "", err
	}
	return manifestPath, nil
}
