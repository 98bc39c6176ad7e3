package persist

import (
	"encoding/json"
	"strings"

	"github.com/claude/studentup/internal/models"
)

// The tabular endpoints assemble records straight from sheet cells, so any
// scalar may come back as text and an empty cell comes back as "". These
// wire types accept that shape; blank values decode as absent.

type wireSnapshot struct {
	Students []wireStudent `json:"students"`
	Workouts []wireSession `json:"workouts"`
}

type wireStudent struct {
	ID       models.LooseString `json:"id"`
	Name     models.LooseString `json:"name"`
	Role     models.LooseString `json:"role"`
	Category models.LooseString `json:"category"`
	Stats    wireStats          `json:"stats"`
}

type wireStats struct {
	Height    models.LooseFloat  `json:"height"`
	Weight    models.LooseFloat  `json:"weight"`
	BodyFat   models.LooseFloat  `json:"bodyFat"`
	Injuries  models.LooseString `json:"injuries"`
	Goals     models.LooseString `json:"goals"`
	UpdatedAt models.LooseString `json:"updatedAt"`
}

type wireSession struct {
	ID            models.LooseString      `json:"id"`
	StudentID     models.LooseString      `json:"studentId"`
	Date          models.LooseString      `json:"date"`
	Category      models.LooseString      `json:"category"`
	Exercises     []models.ExerciseRecord `json:"exercises"`
	CoachNotes    models.LooseString      `json:"coachNotes"`
	RecordedStats *wireRecorded           `json:"recordedStats"`
}

type wireRecorded struct {
	Weight   models.LooseFloat  `json:"weight"`
	BodyFat  models.LooseFloat  `json:"bodyFat"`
	Injuries models.LooseString `json:"injuries"`
}

// decodeSnapshot reads a snapshot body leniently.
func decodeSnapshot(data []byte) (models.Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return models.Snapshot{}, err
	}
	s := models.Snapshot{
		Students: make([]models.Student, 0, len(w.Students)),
		Workouts: make([]models.WorkoutSession, 0, len(w.Workouts)),
	}
	for _, st := range w.Students {
		s.Students = append(s.Students, st.student())
	}
	for _, ws := range w.Workouts {
		s.Workouts = append(s.Workouts, ws.session())
	}
	return s, nil
}

func (w wireStudent) student() models.Student {
	role := models.Role(strings.ToUpper(strings.TrimSpace(string(w.Role))))
	if role == "" {
		role = models.RoleStudent
	}
	c, _ := models.ParseCategory(string(w.Category))
	return models.Student{
		ID:       string(w.ID),
		Name:     string(w.Name),
		Role:     role,
		Category: c,
		Stats: models.StudentStats{
			Height:    w.Stats.Height.Or(0),
			Weight:    w.Stats.Weight.Or(0),
			BodyFat:   w.Stats.BodyFat.Or(0),
			Injuries:  string(w.Stats.Injuries),
			Goals:     string(w.Stats.Goals),
			UpdatedAt: string(w.Stats.UpdatedAt),
		},
	}
}

func (w wireSession) session() models.WorkoutSession {
	var c models.Category
	if !w.Category.Blank() {
		c, _ = models.ParseCategory(string(w.Category))
	}
	exercises := w.Exercises
	if exercises == nil {
		exercises = []models.ExerciseRecord{}
	}
	return models.WorkoutSession{
		ID:            string(w.ID),
		StudentID:     string(w.StudentID),
		Date:          models.NormalizeDate(string(w.Date)),
		Category:      c,
		Exercises:     exercises,
		CoachNotes:    string(w.CoachNotes),
		RecordedStats: w.RecordedStats.stats(),
	}
}

func (w *wireRecorded) stats() *models.RecordedStats {
	if w == nil {
		return nil
	}
	r := &models.RecordedStats{Weight: w.Weight.Val, BodyFat: w.BodyFat.Val}
	if !w.Injuries.Blank() {
		injuries := string(w.Injuries)
		r.Injuries = &injuries
	}
	if r.Empty() {
		return nil
	}
	return r
}
