package roster

import (
	"cmp"
	"slices"

	"github.com/claude/studentup/internal/models"
)

// ProgressStatus is the trend of a student's training volume.
type ProgressStatus string

const (
	Improving  ProgressStatus = "進步"
	Stable     ProgressStatus = "持平"
	Regressing ProgressStatus = "退步"
	Unknown    ProgressStatus = "數據不足"
)

// Progress compares the two most recent sessions of a strength student.
type Progress struct {
	StudentID      string         `json:"studentId"`
	Status         ProgressStatus `json:"status"`
	Sessions       int            `json:"sessions"`
	LatestVolume   float64        `json:"latestVolume"`
	PreviousVolume float64        `json:"previousVolume"`
}

// Volume is the total weight moved in a session: the sum of
// weight × sets × reps over its strength records.
func Volume(w models.WorkoutSession) float64 {
	var v float64
	for _, e := range w.Exercises {
		if e.Strength != nil {
			v += e.Strength.Weight * float64(e.Strength.Sets) * float64(e.Strength.Reps)
		}
	}
	return v
}

// SortNewestFirst orders sessions by date, most recent first. Sessions on the
// same day keep their stored order.
func SortNewestFirst(ws []models.WorkoutSession) {
	slices.SortStableFunc(ws, func(a, b models.WorkoutSession) int {
		return cmp.Compare(models.NormalizeDate(b.Date), models.NormalizeDate(a.Date))
	})
}

// ComputeProgress derives the progress of st from its sessions. Only strength
// students have a measurable trend; others are always Unknown.
func ComputeProgress(st models.Student, sessions []models.WorkoutSession) Progress {
	p := Progress{StudentID: st.ID, Status: Unknown, Sessions: len(sessions)}
	if st.Category != models.CategoryWorkout || len(sessions) < 2 {
		return p
	}

	sorted := slices.Clone(sessions)
	SortNewestFirst(sorted)
	p.LatestVolume = Volume(sorted[0])
	p.PreviousVolume = Volume(sorted[1])

	switch {
	case p.LatestVolume > p.PreviousVolume:
		p.Status = Improving
	case p.LatestVolume < p.PreviousVolume:
		p.Status = Regressing
	default:
		p.Status = Stable
	}
	return p
}
