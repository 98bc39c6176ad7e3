package alpha

import (
	"strconv"

	"github.com/claude/studentup/internal/models"
)

// ToSession turns an export session into a strength session. Each exercise
// becomes one record: the heaviest working set gives weight and reps, and the
// number of working sets gives sets. Exercises without working sets are
// dropped.
func ToSession(s Session) models.WorkoutSession {
	w := models.WorkoutSession{
		Date:       models.Day(s.Date),
		Category:   models.CategoryWorkout,
		Exercises:  []models.ExerciseRecord{},
		CoachNotes: s.Name,
	}
	if s.Duration != "" {
		w.CoachNotes += " (" + s.Duration + ")"
	}

	for _, ex := range s.Exercises {
		top, n := topSet(ex.Sets)
		if n == 0 {
			continue
		}
		w.Exercises = append(w.Exercises, models.ExerciseRecord{
			ID:   "a" + strconv.Itoa(ex.Number),
			Name: ex.Name,
			Strength: &models.StrengthSet{
				Weight: top.WeightKg,
				Sets:   n,
				Reps:   top.Reps,
			},
		})
	}
	return w
}

// topSet returns the heaviest working set (the first one on ties) and the
// number of working sets.
func topSet(sets []Set) (Set, int) {
	var top Set
	n := 0
	for _, s := range sets {
		if s.IsWarmup {
			continue
		}
		if n == 0 || s.WeightKg > top.WeightKg {
			top = s
		}
		n++
	}
	return top, n
}
