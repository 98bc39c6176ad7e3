package roster

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/persist"
)

// Confirmation prompts for destructive operations.
const (
	DeleteSessionPrompt = "確定要刪除這筆訓練紀錄嗎？"
	DeleteStudentPrompt = "🚨 警告：確定要刪除這位學員及其所有訓練紀錄嗎？\n資料將會永久消失。"
)

// ConfirmFunc asks for confirmation of a destructive operation.
type ConfirmFunc func(prompt string) bool

// Confirmed is a ConfirmFunc that always agrees.
func Confirmed(string) bool { return true }

// Options configures a Store.
type Options struct {
	// SaveTimeout bounds each save. Zero means 30 seconds.
	SaveTimeout time.Duration
	// Registerer receives the store's metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

type metrics struct {
	saves     *prometheus.CounterVec
	mutations *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		saves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studentup",
			Name:      "snapshot_saves_total",
			Help:      "Snapshot saves through the storage port, by result.",
		}, []string{"result"}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studentup",
			Name:      "roster_mutations_total",
			Help:      "Applied roster mutations, by operation.",
		}, []string{"op"}),
	}
}

// Store owns the current snapshot. Every mutation swaps the snapshot and then
// writes it through the port while still holding the lock, so saves observe
// snapshots in mutation order. Save failures are logged and counted but never
// returned: the in-memory state stays authoritative.
type Store struct {
	port        persist.Port
	log         *slog.Logger
	metrics     *metrics
	saveTimeout time.Duration
	now         func() time.Time

	mu   sync.RWMutex
	snap models.Snapshot
}

// Open loads the snapshot from port. A load failure is logged and the demo
// dataset is used instead.
func Open(ctx context.Context, port persist.Port, logger *slog.Logger, opts Options) *Store {
	s := &Store{
		port:        port,
		log:         logger,
		metrics:     newMetrics(opts.Registerer),
		saveTimeout: opts.SaveTimeout,
		now:         time.Now,
	}
	if s.saveTimeout <= 0 {
		s.saveTimeout = 30 * time.Second
	}

	snap, err := port.Load(ctx)
	if err != nil {
		logger.Warn("loading snapshot failed, using demo data", "error", err)
		snap = models.DemoSnapshot(s.now())
	}
	s.snap = snap
	logger.Info("roster loaded", "students", len(snap.Students), "workouts", len(snap.Workouts))
	return s
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// commit installs next and saves it. Caller holds s.mu.
func (s *Store) commit(ctx context.Context, op string, next models.Snapshot) {
	s.snap = next
	s.metrics.mutations.WithLabelValues(op).Inc()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	if err := s.port.Save(saveCtx, next); err != nil {
		s.metrics.saves.WithLabelValues("error").Inc()
		s.log.Error("saving snapshot", "op", op, "error", err)
		return
	}
	s.metrics.saves.WithLabelValues("ok").Inc()
}

// CreateStudent adds a student with default stats.
func (s *Store) CreateStudent(ctx context.Context, name string, c models.Category) (models.Student, error) {
	name = strings.TrimSpace(name)
	if name == "" || !c.Valid() {
		return models.Student{}, fmt.Errorf("student needs a name and a known category: %w", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := models.Student{
		ID:       "s_" + newID(),
		Name:     name,
		Role:     models.RoleStudent,
		Category: c,
		Stats: models.StudentStats{
			Injuries:  "無",
			UpdatedAt: models.Timestamp(s.now()),
		},
	}
	s.commit(ctx, "create_student", AddStudent(s.snap, st))
	return st, nil
}

// UpdateStats replaces the stats of student id. An empty UpdatedAt is set to
// now.
func (s *Store) UpdateStats(ctx context.Context, id string, stats models.StudentStats) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stats.UpdatedAt == "" {
		stats.UpdatedAt = models.Timestamp(s.now())
	}
	next, err := UpdateStats(s.snap, id, stats)
	if err != nil {
		return models.Student{}, fmt.Errorf("student %s: %w", id, err)
	}
	s.commit(ctx, "update_stats", next)
	return next.Students[studentIndex(next, id)], nil
}

// LogSession records a new session for a student, dated today and tagged with
// the student's category, then refreshes the student's stats from the
// session's recorded stats.
func (s *Store) LogSession(ctx context.Context, studentID string, d category.Draft) (models.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := studentIndex(s.snap, studentID)
	if i < 0 {
		return models.WorkoutSession{}, fmt.Errorf("student %s: %w", studentID, ErrNotFound)
	}
	c := s.snap.Students[i].Category
	if err := category.Validate(c, d); err != nil {
		return models.WorkoutSession{}, err
	}

	now := s.now()
	w := models.WorkoutSession{
		ID:            newID(),
		StudentID:     studentID,
		Date:          models.Day(now.UTC()),
		Category:      c,
		Exercises:     shapeExercises(c, d.Exercises, newID),
		CoachNotes:    d.CoachNotes,
		RecordedStats: recorded(d.RecordedStats),
	}

	next := AddSession(s.snap, w)
	next, err := ApplyRecordedStats(next, studentID, w.RecordedStats, now)
	if err != nil {
		return models.WorkoutSession{}, err
	}
	s.commit(ctx, "log_session", next)
	return w, nil
}

// EditSession replaces the content of an existing session. The stored date,
// owner and category are kept.
func (s *Store) EditSession(ctx context.Context, id string, d category.Draft) (models.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := sessionIndex(s.snap, id)
	if j < 0 {
		return models.WorkoutSession{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	old := s.snap.Workouts[j]

	c := old.Category
	if !c.Valid() {
		if i := studentIndex(s.snap, old.StudentID); i >= 0 {
			c = s.snap.Students[i].Category
		} else {
			c = category.Infer(old.Exercises)
		}
	}
	if err := category.Validate(c, d); err != nil {
		return models.WorkoutSession{}, err
	}

	w := old
	w.Category = c
	w.Exercises = shapeExercises(c, d.Exercises, newID)
	w.CoachNotes = d.CoachNotes
	w.RecordedStats = recorded(d.RecordedStats)

	next, err := UpdateSession(s.snap, w)
	if err != nil {
		return models.WorkoutSession{}, err
	}
	if studentIndex(next, w.StudentID) >= 0 {
		if next, err = ApplyRecordedStats(next, w.StudentID, w.RecordedStats, s.now()); err != nil {
			return models.WorkoutSession{}, err
		}
	}
	s.commit(ctx, "edit_session", next)
	return w, nil
}

// ImportSessions appends sessions for a student as given, keeping their
// dates. A session on the same day with the same notes as one the student
// already has, or as an earlier one in the batch, is skipped. Each added
// session is tagged with the student's category and must pass its non-empty
// rule. Stats are not refreshed. It returns the sessions that were added.
func (s *Store) ImportSessions(ctx context.Context, studentID string, sessions []models.WorkoutSession) ([]models.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := studentIndex(s.snap, studentID)
	if i < 0 {
		return nil, fmt.Errorf("student %s: %w", studentID, ErrNotFound)
	}
	c := s.snap.Students[i].Category

	seen := make(map[string]bool)
	for _, w := range s.snap.Workouts {
		if w.StudentID == studentID {
			seen[importKey(w)] = true
		}
	}

	next := s.snap
	out := make([]models.WorkoutSession, 0, len(sessions))
	for _, w := range sessions {
		key := importKey(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		d := category.Draft{Exercises: w.Exercises, CoachNotes: w.CoachNotes, RecordedStats: w.RecordedStats}
		if err := category.Validate(c, d); err != nil {
			return nil, fmt.Errorf("session %s: %w", w.Date, err)
		}
		w.ID = newID()
		w.StudentID = studentID
		w.Date = models.NormalizeDate(w.Date)
		w.Category = c
		w.Exercises = shapeExercises(c, w.Exercises, newID)
		w.RecordedStats = recorded(w.RecordedStats)
		next = AddSession(next, w)
		out = append(out, w)
	}
	if len(out) > 0 {
		s.commit(ctx, "import_sessions", next)
	}
	return out, nil
}

func importKey(w models.WorkoutSession) string {
	return models.NormalizeDate(w.Date) + "\x00" + w.CoachNotes
}

// DeleteSession removes a session once confirm agrees. It reports whether the
// session was deleted; a declined confirmation leaves the state unchanged.
func (s *Store) DeleteSession(ctx context.Context, id string, confirm ConfirmFunc) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionIndex(s.snap, id) < 0 {
		return false, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if !confirm(DeleteSessionPrompt) {
		return false, nil
	}
	next, err := DeleteSession(s.snap, id)
	if err != nil {
		return false, err
	}
	s.commit(ctx, "delete_session", next)
	return true, nil
}

// DeleteStudent removes a student and all of its sessions once confirm
// agrees.
func (s *Store) DeleteStudent(ctx context.Context, id string, confirm ConfirmFunc) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if studentIndex(s.snap, id) < 0 {
		return false, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	if !confirm(DeleteStudentPrompt) {
		return false, nil
	}
	next, err := DeleteStudent(s.snap, id)
	if err != nil {
		return false, err
	}
	s.commit(ctx, "delete_student", next)
	return true, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Snapshot{
		Students: slices.Clone(s.snap.Students),
		Workouts: slices.Clone(s.snap.Workouts),
	}
}

// Students lists the students of category c, or all students when c is empty.
func (s *Store) Students(c models.Category) []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Student{}
	for _, st := range s.snap.Students {
		if c == "" || st.Category == c {
			out = append(out, st)
		}
	}
	return out
}

// Student returns student id.
func (s *Store) Student(id string) (models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := studentIndex(s.snap, id)
	if i < 0 {
		return models.Student{}, fmt.Errorf("student %s: %w", id, ErrNotFound)
	}
	return s.snap.Students[i], nil
}

// Session returns session id.
func (s *Store) Session(id string) (models.WorkoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j := sessionIndex(s.snap, id)
	if j < 0 {
		return models.WorkoutSession{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s.snap.Workouts[j], nil
}

// Sessions lists the sessions of a student, most recent first.
func (s *Store) Sessions(studentID string) ([]models.WorkoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if studentIndex(s.snap, studentID) < 0 {
		return nil, fmt.Errorf("student %s: %w", studentID, ErrNotFound)
	}
	return s.sessionsOf(studentID), nil
}

func (s *Store) sessionsOf(studentID string) []models.WorkoutSession {
	out := []models.WorkoutSession{}
	for _, w := range s.snap.Workouts {
		if w.StudentID == studentID {
			out = append(out, w)
		}
	}
	SortNewestFirst(out)
	return out
}

// Progress computes the training trend of a student.
func (s *Store) Progress(studentID string) (Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := studentIndex(s.snap, studentID)
	if i < 0 {
		return Progress{}, fmt.Errorf("student %s: %w", studentID, ErrNotFound)
	}
	return ComputeProgress(s.snap.Students[i], s.sessionsOf(studentID)), nil
}

// recorded drops a stats snapshot that carries no field.
func recorded(rs *models.RecordedStats) *models.RecordedStats {
	if rs.Empty() {
		return nil
	}
	cp := *rs
	return &cp
}
