package roster

import (
	"github.com/claude/studentup/internal/models"
)

// Virtual entry names for single-record categories.
const (
	SwimEntryName   = "游泳紀錄"
	BoxingEntryName = "拳擊紀錄"
)

// shapeExercises forces the coach's input into the record shape of c.
// Swimming and boxing sessions hold one virtual entry; strength sessions keep
// every record as a strength set; other sessions hold none.
func shapeExercises(c models.Category, in []models.ExerciseRecord, newID func() string) []models.ExerciseRecord {
	id := func(e models.ExerciseRecord) string {
		if e.ID != "" {
			return e.ID
		}
		return newID()
	}

	var first models.ExerciseRecord
	if len(in) > 0 {
		first = in[0]
	}

	switch c {
	case models.CategorySwimming:
		swim := models.SwimEntry{Stroke: models.StrokeFreestyle}
		if first.Swim != nil {
			swim.Progress = first.Swim.Progress
			if s, ok := models.ParseStroke(string(first.Swim.Stroke)); ok {
				swim.Stroke = s
			}
		}
		return []models.ExerciseRecord{{ID: id(first), Name: SwimEntryName, Swim: &swim}}

	case models.CategoryBoxing:
		var b models.BoxingEntry
		if first.Boxing != nil {
			b = *first.Boxing
		}
		return []models.ExerciseRecord{{ID: id(first), Name: BoxingEntryName, Boxing: &b}}

	case models.CategoryWorkout:
		out := make([]models.ExerciseRecord, 0, len(in))
		for _, e := range in {
			st := models.StrengthSet{}
			if e.Strength != nil {
				st = *e.Strength
			}
			out = append(out, models.ExerciseRecord{ID: id(e), Name: e.Name, Strength: &st})
		}
		return out
	}
	return []models.ExerciseRecord{}
}
