package roster

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
)

func ptr[T any](v T) *T { return &v }

type fakePort struct {
	mu      sync.Mutex
	load    models.Snapshot
	loadErr error
	saveErr error
	saved   []models.Snapshot
}

func (f *fakePort) Load(context.Context) (models.Snapshot, error) {
	return f.load, f.loadErr
}

func (f *fakePort) Save(_ context.Context, s models.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return f.saveErr
}

var fixedNow = time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)

func openStore(t *testing.T, port *fakePort) *Store {
	t.Helper()
	s := Open(context.Background(), port, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})
	s.now = func() time.Time { return fixedNow }
	return s
}

func demoPort() *fakePort {
	return &fakePort{load: models.DemoSnapshot(fixedNow)}
}

func declined(string) bool { return false }

// TestDeleteStudentCascades verifies that removing a student removes exactly
// its sessions.
func TestDeleteStudentCascades(t *testing.T) {
	port := demoPort()
	port.load.Workouts = append(port.load.Workouts, models.WorkoutSession{ID: "w9", StudentID: "s2", CoachNotes: "伸展"})
	s := openStore(t, port)

	ok, err := s.DeleteStudent(context.Background(), "s1", Confirmed)
	if err != nil || !ok {
		t.Fatalf("DeleteStudent = %v, %v", ok, err)
	}
	snap := s.Snapshot()
	if len(snap.Students) != 1 || snap.Students[0].ID != "s2" {
		t.Errorf("students = %+v", snap.Students)
	}
	for _, w := range snap.Workouts {
		if w.StudentID == "s1" {
			t.Errorf("session %s of deleted student survived", w.ID)
		}
	}
	if len(snap.Workouts) != 1 {
		t.Errorf("workouts = %d, want 1", len(snap.Workouts))
	}
	if len(port.saved) != 1 || !reflect.DeepEqual(port.saved[0], snap) {
		t.Errorf("saved = %+v, want the new snapshot once", port.saved)
	}
}

// TestDeclinedDeleteLeavesState verifies that a declined confirmation changes
// nothing and saves nothing.
func TestDeclinedDeleteLeavesState(t *testing.T) {
	port := demoPort()
	s := openStore(t, port)
	before := s.Snapshot()
	ctx := context.Background()

	if ok, err := s.DeleteStudent(ctx, "s1", declined); ok || err != nil {
		t.Errorf("DeleteStudent = %v, %v; want false, nil", ok, err)
	}
	if ok, err := s.DeleteSession(ctx, "w1", declined); ok || err != nil {
		t.Errorf("DeleteSession = %v, %v; want false, nil", ok, err)
	}
	if !reflect.DeepEqual(s.Snapshot(), before) {
		t.Error("state changed after declined delete")
	}
	if len(port.saved) != 0 {
		t.Errorf("saved %d times, want 0", len(port.saved))
	}
}

// TestDeleteUnknown verifies ErrNotFound for unknown ids.
func TestDeleteUnknown(t *testing.T) {
	s := openStore(t, demoPort())
	if _, err := s.DeleteSession(context.Background(), "nope", Confirmed); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestLogSessionRefreshesStatsPartially verifies that only recorded fields
// overwrite the student's stats and the update time is refreshed.
func TestLogSessionRefreshesStatsPartially(t *testing.T) {
	port := demoPort()
	s := openStore(t, port)
	before, _ := s.Student("s1")

	w, err := s.LogSession(context.Background(), "s1", category.Draft{
		RecordedStats: &models.RecordedStats{Weight: ptr(68.0)},
	})
	if err != nil {
		t.Fatalf("LogSession: %v", err)
	}
	if w.Date != "2024-03-05" || w.Category != models.CategoryWorkout {
		t.Errorf("session = %+v", w)
	}

	after, _ := s.Student("s1")
	want := before.Stats
	want.Weight = 68
	want.UpdatedAt = "2024-03-05T09:30:00.000Z"
	if after.Stats != want {
		t.Errorf("stats = %+v, want %+v", after.Stats, want)
	}
}

// TestLogSessionEmptyRejected verifies the category non-empty rule.
func TestLogSessionEmptyRejected(t *testing.T) {
	port := demoPort()
	s := openStore(t, port)
	_, err := s.LogSession(context.Background(), "s1", category.Draft{})
	if !errors.Is(err, ErrEmptySession) {
		t.Errorf("err = %v, want ErrEmptySession", err)
	}
	if len(port.saved) != 0 {
		t.Error("rejected session was saved")
	}
}

// TestLogSessionShapesSwimming verifies that swimming input becomes one
// virtual entry with the default stroke.
func TestLogSessionShapesSwimming(t *testing.T) {
	s := openStore(t, demoPort())
	ctx := context.Background()
	st, err := s.CreateStudent(ctx, "游小魚", models.CategorySwimming)
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	w, err := s.LogSession(ctx, st.ID, category.Draft{
		Exercises: []models.ExerciseRecord{{Swim: &models.SwimEntry{Progress: "50m x 4"}}},
	})
	if err != nil {
		t.Fatalf("LogSession: %v", err)
	}
	if len(w.Exercises) != 1 {
		t.Fatalf("exercises = %+v", w.Exercises)
	}
	e := w.Exercises[0]
	if e.Name != SwimEntryName || e.Swim == nil || e.Swim.Stroke != models.StrokeFreestyle || e.Swim.Progress != "50m x 4" || e.ID == "" {
		t.Errorf("entry = %+v", e)
	}
	if w.RecordedStats != nil {
		t.Errorf("RecordedStats = %+v, want nil", w.RecordedStats)
	}
}

// TestCreateStudentDefaults verifies the defaults of a new student.
func TestCreateStudentDefaults(t *testing.T) {
	s := openStore(t, demoPort())
	st, err := s.CreateStudent(context.Background(), " 王大同 ", models.CategoryBoxing)
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if len(st.ID) != len("s_")+9 || st.ID[:2] != "s_" {
		t.Errorf("ID = %q", st.ID)
	}
	want := models.StudentStats{Injuries: "無", UpdatedAt: "2024-03-05T09:30:00.000Z"}
	if st.Name != "王大同" || st.Role != models.RoleStudent || st.Stats != want {
		t.Errorf("student = %+v", st)
	}

	if _, err := s.CreateStudent(context.Background(), " ", models.CategoryBoxing); !errors.Is(err, ErrInvalid) {
		t.Errorf("blank name err = %v, want ErrInvalid", err)
	}
}

// TestEditSessionKeepsDateAndOwner verifies that an edit replaces content only.
func TestEditSessionKeepsDateAndOwner(t *testing.T) {
	s := openStore(t, demoPort())
	w, err := s.EditSession(context.Background(), "w1", category.Draft{
		Exercises:  []models.ExerciseRecord{{Name: "硬舉", Strength: &models.StrengthSet{Weight: 80, Sets: 3, Reps: 5}}},
		CoachNotes: "改練硬舉",
	})
	if err != nil {
		t.Fatalf("EditSession: %v", err)
	}
	if w.Date != "2023-10-01" || w.StudentID != "s1" || w.Category != models.CategoryWorkout {
		t.Errorf("session = %+v", w)
	}
	got, _ := s.Session("w1")
	if len(got.Exercises) != 1 || got.Exercises[0].Name != "硬舉" || got.CoachNotes != "改練硬舉" {
		t.Errorf("stored = %+v", got)
	}
}

// TestSaveFailureNotSurfaced verifies that a failing port does not fail the
// mutation and the in-memory state still changes.
func TestSaveFailureNotSurfaced(t *testing.T) {
	port := demoPort()
	port.saveErr = errors.New("disk full")
	s := openStore(t, port)

	if _, err := s.CreateStudent(context.Background(), "新學員", models.CategoryOther); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if got := len(s.Students("")); got != 3 {
		t.Errorf("students = %d, want 3", got)
	}
}

// TestOpenFallsBackToDemo verifies that a load failure yields the demo data.
func TestOpenFallsBackToDemo(t *testing.T) {
	s := openStore(t, &fakePort{loadErr: errors.New("network down")})
	snap := s.Snapshot()
	if len(snap.Students) != 2 || len(snap.Workouts) != 2 {
		t.Errorf("snapshot = %+v, want demo", snap)
	}
}

// TestSessionsNewestFirst verifies the history order.
func TestSessionsNewestFirst(t *testing.T) {
	s := openStore(t, demoPort())
	ws, err := s.Sessions("s1")
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(ws) != 2 || ws[0].ID != "w2" || ws[1].ID != "w1" {
		t.Errorf("order = %v", ws)
	}
}

// TestProgress verifies the volume comparison of the two latest sessions.
func TestProgress(t *testing.T) {
	s := openStore(t, demoPort())

	// demo: w1 = 60*4*10 + 40*3*12 = 3840, w2 = 65*4*8 + 42.5*3*10 = 3355
	p, err := s.Progress("s1")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.Status != Regressing || p.LatestVolume != 3355 || p.PreviousVolume != 3840 {
		t.Errorf("progress = %+v", p)
	}

	p, _ = s.Progress("s2")
	if p.Status != Unknown {
		t.Errorf("non-strength status = %q, want %q", p.Status, Unknown)
	}
}

// TestPureFunctionsDoNotMutate verifies that update functions leave their
// input intact.
func TestPureFunctionsDoNotMutate(t *testing.T) {
	in := models.DemoSnapshot(fixedNow)
	orig := models.DemoSnapshot(fixedNow)

	_, _ = DeleteStudent(in, "s1")
	_, _ = UpdateStats(in, "s1", models.StudentStats{Weight: 1})
	_ = AddSession(in, models.WorkoutSession{ID: "x"})
	_, _ = ApplyRecordedStats(in, "s2", &models.RecordedStats{BodyFat: ptr(10.0)}, fixedNow)

	if !reflect.DeepEqual(in, orig) {
		t.Error("input snapshot was modified")
	}
}

// TestImportSessionsSkipsKnownDays verifies that imports skip sessions the
// student already has for the same day and notes, and that two concurrent
// imports of one batch add it once.
func TestImportSessionsSkipsKnownDays(t *testing.T) {
	port := demoPort()
	s := openStore(t, port)
	ctx := context.Background()

	squat := func() []models.ExerciseRecord {
		return []models.ExerciseRecord{{Name: "槓鈴深蹲", Strength: &models.StrengthSet{Weight: 80, Sets: 3, Reps: 5}}}
	}
	batch := []models.WorkoutSession{
		{Date: "2023-10-01T00:00:00.000Z", CoachNotes: "動作穩定，可以嘗試增重。", Exercises: squat()},
		{Date: "2024-03-04", CoachNotes: "Legs", Exercises: squat()},
		{Date: "2024-03-04", CoachNotes: "Legs", Exercises: squat()},
	}

	var wg sync.WaitGroup
	added := make([]int, 2)
	for i := range added {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.ImportSessions(ctx, "s1", batch)
			if err != nil {
				t.Errorf("ImportSessions: %v", err)
			}
			added[i] = len(got)
		}()
	}
	wg.Wait()

	if added[0]+added[1] != 1 {
		t.Errorf("added = %v, want one session in total", added)
	}
	sessions, err := s.Sessions("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 3 || sessions[0].Date != "2024-03-04" || sessions[0].CoachNotes != "Legs" {
		t.Errorf("sessions = %+v", sessions)
	}
	if len(port.saved) != 1 {
		t.Errorf("saves = %d, want 1", len(port.saved))
	}
}
