// Package roster holds the coach's application state: students and their
// training sessions. The exported functions over models.Snapshot are pure and
// never modify their input; Store owns the current snapshot and persists it
// after every mutation.
package roster

import (
	"errors"
	"slices"
	"time"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
)

var (
	// ErrNotFound is returned when a student or session id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrEmptySession is returned when a session records nothing for its
	// category.
	ErrEmptySession = category.ErrEmptySession
	// ErrInvalid is returned for malformed input such as a blank name.
	ErrInvalid = errors.New("invalid input")
)

// AddStudent returns s with st appended.
func AddStudent(s models.Snapshot, st models.Student) models.Snapshot {
	s.Students = append(slices.Clip(s.Students), st)
	return s
}

// UpdateStats replaces the stats of student id.
func UpdateStats(s models.Snapshot, id string, stats models.StudentStats) (models.Snapshot, error) {
	i := studentIndex(s, id)
	if i < 0 {
		return s, ErrNotFound
	}
	s.Students = slices.Clone(s.Students)
	s.Students[i].Stats = stats
	return s, nil
}

// AddSession returns s with w appended.
func AddSession(s models.Snapshot, w models.WorkoutSession) models.Snapshot {
	s.Workouts = append(slices.Clip(s.Workouts), w)
	return s
}

// UpdateSession replaces the session with w's id.
func UpdateSession(s models.Snapshot, w models.WorkoutSession) (models.Snapshot, error) {
	i := sessionIndex(s, w.ID)
	if i < 0 {
		return s, ErrNotFound
	}
	s.Workouts = slices.Clone(s.Workouts)
	s.Workouts[i] = w
	return s, nil
}

// DeleteSession removes session id.
func DeleteSession(s models.Snapshot, id string) (models.Snapshot, error) {
	if sessionIndex(s, id) < 0 {
		return s, ErrNotFound
	}
	s.Workouts = slices.DeleteFunc(slices.Clone(s.Workouts), func(w models.WorkoutSession) bool {
		return w.ID == id
	})
	return s, nil
}

// DeleteStudent removes student id and every session it owns.
func DeleteStudent(s models.Snapshot, id string) (models.Snapshot, error) {
	if studentIndex(s, id) < 0 {
		return s, ErrNotFound
	}
	s.Students = slices.DeleteFunc(slices.Clone(s.Students), func(st models.Student) bool {
		return st.ID == id
	})
	s.Workouts = slices.DeleteFunc(slices.Clone(s.Workouts), func(w models.WorkoutSession) bool {
		return w.StudentID == id
	})
	return s, nil
}

// ApplyRecordedStats copies the recorded fields of rs onto the student's
// stats. Fields rs does not carry keep their value. The update time is set to
// now. Empty rs leaves s unchanged.
func ApplyRecordedStats(s models.Snapshot, studentID string, rs *models.RecordedStats, now time.Time) (models.Snapshot, error) {
	if rs.Empty() {
		return s, nil
	}
	i := studentIndex(s, studentID)
	if i < 0 {
		return s, ErrNotFound
	}
	stats := s.Students[i].Stats
	if rs.Weight != nil {
		stats.Weight = *rs.Weight
	}
	if rs.BodyFat != nil {
		stats.BodyFat = *rs.BodyFat
	}
	if rs.Injuries != nil {
		stats.Injuries = *rs.Injuries
	}
	stats.UpdatedAt = models.Timestamp(now)
	return UpdateStats(s, studentID, stats)
}

func studentIndex(s models.Snapshot, id string) int {
	return slices.IndexFunc(s.Students, func(st models.Student) bool { return st.ID == id })
}

func sessionIndex(s models.Snapshot, id string) int {
	return slices.IndexFunc(s.Workouts, func(w models.WorkoutSession) bool { return w.ID == id })
}
