package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/studentup/internal/ingest"
	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/roster"
)

// Importer adds Alpha Progression sessions to a strength student's log.
type Importer struct {
	store *roster.Store
	log   *slog.Logger
}

// NewImporter creates an Importer writing to store.
func NewImporter(store *roster.Store, log *slog.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// Import parses an export and appends its sessions to the student. Sessions
// without working sets are skipped, and so are sessions the store already
// has for that day and notes, so an export can be imported again after it
// grows.
func (im *Importer) Import(ctx context.Context, studentID string, r io.Reader) (*ingest.Result, error) {
	st, err := im.store.Student(studentID)
	if err != nil {
		return nil, err
	}
	if st.Category != models.CategoryWorkout {
		return nil, fmt.Errorf("student %s is not in strength training: %w", studentID, roster.ErrInvalid)
	}

	parsed, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w: %w", roster.ErrInvalid, err)
	}

	result := &ingest.Result{SessionsReceived: len(parsed)}
	var logged []models.WorkoutSession
	for _, s := range parsed {
		if w := ToSession(s); len(w.Exercises) > 0 {
			logged = append(logged, w)
		}
	}

	added, err := im.store.ImportSessions(ctx, studentID, logged)
	if err != nil {
		return nil, fmt.Errorf("storing sessions: %w", err)
	}
	result.SessionsImported = len(added)
	result.SessionsSkipped = result.SessionsReceived - len(added)
	for _, w := range added {
		result.ExercisesImported += len(w.Exercises)
	}

	im.log.Info("alpha import",
		"student", studentID,
		"received", result.SessionsReceived,
		"imported", result.SessionsImported,
		"skipped", result.SessionsSkipped,
	)
	return result, nil
}
