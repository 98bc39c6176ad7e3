package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/tabular"
)

// Payload is the body of a save request. A nil slice leaves its sheet(s)
// untouched; an empty one clears them.
type Payload struct {
	Students []models.Student        `json:"students"`
	Workouts []models.WorkoutSession `json:"workouts"`
}

// Service reads and writes the roster as sheets.
type Service struct {
	store  tabular.Store
	layout Layout
	log    *slog.Logger

	mu sync.Mutex // serializes saves
}

// NewService creates a Service over store.
func NewService(store tabular.Store, layout Layout, logger *slog.Logger) *Service {
	return &Service{store: store, layout: layout, log: logger}
}

// Layout returns the service's sheet layout.
func (s *Service) Layout() Layout {
	return s.layout
}

// Load reads every student and every session. Missing sheets read as empty.
func (s *Service) Load(ctx context.Context) (models.Snapshot, error) {
	snap := models.Snapshot{
		Students: []models.Student{},
		Workouts: []models.WorkoutSession{},
	}

	t, err := s.store.ReadSheet(ctx, StudentsSheet)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("reading students: %w", err)
	}
	for _, r := range Rows(t) {
		snap.Students = append(snap.Students, StudentFromRow(r))
	}

	for _, name := range s.layout.sheets {
		t, err := s.store.ReadSheet(ctx, name)
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("reading %s: %w", name, err)
		}
		for _, r := range Rows(t) {
			snap.Workouts = append(snap.Workouts, SessionFromRow(name, r))
		}
	}
	return snap, nil
}

// Save rewrites the sheets named by p.
func (s *Service) Save(ctx context.Context, p Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Students != nil {
		if err := s.store.WriteSheet(ctx, StudentsSheet, s.layout.StudentTable(p.Students)); err != nil {
			return fmt.Errorf("writing students: %w", err)
		}
	}

	if p.Workouts == nil {
		return nil
	}

	names, err := s.names(ctx, p.Students)
	if err != nil {
		return err
	}
	tables, err := s.layout.WorkoutTables(p.Workouts, names)
	if err != nil {
		return fmt.Errorf("rendering workouts: %w", err)
	}
	for _, name := range s.layout.sheets {
		if err := s.store.WriteSheet(ctx, name, tables[name]); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	s.log.Debug("sheets saved",
		"layout", s.layout.Variant,
		"students", len(p.Students),
		"workouts", len(p.Workouts),
	)
	return nil
}

// names resolves student names for layouts that carry them. Without students
// in the payload the stored Students sheet is used.
func (s *Service) names(ctx context.Context, students []models.Student) (map[string]string, error) {
	if s.layout.Variant != VariantSeparate {
		return nil, nil
	}
	if students != nil {
		return NameIndex(students), nil
	}
	t, err := s.store.ReadSheet(ctx, StudentsSheet)
	if err != nil {
		return nil, fmt.Errorf("reading students: %w", err)
	}
	stored := make([]models.Student, 0, len(t.Rows))
	for _, r := range Rows(t) {
		stored = append(stored, StudentFromRow(r))
	}
	return NameIndex(stored), nil
}
