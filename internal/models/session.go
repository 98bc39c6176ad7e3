package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Stroke is a swimming stroke label as stored in exercise records.
type Stroke string

const (
	StrokeFreestyle    Stroke = "自由式"
	StrokeBreaststroke Stroke = "蛙式"
	StrokeBackstroke   Stroke = "仰式"
	StrokeButterfly    Stroke = "蝶式"
)

// Strokes lists the accepted strokes in form order.
var Strokes = []Stroke{StrokeFreestyle, StrokeBreaststroke, StrokeBackstroke, StrokeButterfly}

var strokeAliases = map[string]Stroke{
	"自由式":          StrokeFreestyle,
	"freestyle":    StrokeFreestyle,
	"front crawl":  StrokeFreestyle,
	"蛙式":           StrokeBreaststroke,
	"breaststroke": StrokeBreaststroke,
	"仰式":           StrokeBackstroke,
	"backstroke":   StrokeBackstroke,
	"蝶式":           StrokeButterfly,
	"butterfly":    StrokeButterfly,
}

// ParseStroke resolves a stroke label in Chinese or English.
func ParseStroke(s string) (Stroke, bool) {
	st, ok := strokeAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// StrengthSet is the strength-training variant of an exercise record.
type StrengthSet struct {
	Weight float64
	Sets   int
	Reps   int
}

// SwimEntry is the swimming variant of an exercise record.
type SwimEntry struct {
	Stroke   Stroke
	Progress string
}

// BoxingEntry is the boxing variant of an exercise record.
type BoxingEntry struct {
	IsStrengthTraining bool
	Combinations       string
}

// ExerciseRecord is one logged exercise. At most one of Strength, Swim or
// Boxing is set; a record with none belongs to CategoryOther.
type ExerciseRecord struct {
	ID       string
	Name     string
	Strength *StrengthSet
	Swim     *SwimEntry
	Boxing   *BoxingEntry
}

// Kind returns the category whose variant is populated.
func (e ExerciseRecord) Kind() Category {
	switch {
	case e.Swim != nil:
		return CategorySwimming
	case e.Boxing != nil:
		return CategoryBoxing
	case e.Strength != nil:
		return CategoryWorkout
	}
	return CategoryOther
}

// exerciseJSON is the flat wire shape: only the active variant's fields are
// emitted.
type exerciseJSON struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Weight             *float64 `json:"weight,omitempty"`
	Sets               *float64 `json:"sets,omitempty"`
	Reps               *float64 `json:"reps,omitempty"`
	Stroke             *string  `json:"stroke,omitempty"`
	Progress           *string  `json:"progress,omitempty"`
	IsStrengthTraining *bool    `json:"isStrengthTraining,omitempty"`
	Combinations       *string  `json:"combinations,omitempty"`
}

// MarshalJSON flattens the active variant into optional fields.
func (e ExerciseRecord) MarshalJSON() ([]byte, error) {
	w := exerciseJSON{ID: e.ID, Name: e.Name}
	switch {
	case e.Swim != nil:
		stroke := string(e.Swim.Stroke)
		w.Stroke, w.Progress = &stroke, &e.Swim.Progress
	case e.Boxing != nil:
		w.IsStrengthTraining, w.Combinations = &e.Boxing.IsStrengthTraining, &e.Boxing.Combinations
	case e.Strength != nil:
		sets, reps := float64(e.Strength.Sets), float64(e.Strength.Reps)
		w.Weight, w.Sets, w.Reps = &e.Strength.Weight, &sets, &reps
	}
	return json.Marshal(w)
}

// exerciseWire is the decode side of exerciseJSON. Values may arrive as
// spreadsheet text.
type exerciseWire struct {
	ID                 LooseString `json:"id"`
	Name               LooseString `json:"name"`
	Weight             LooseFloat  `json:"weight"`
	Sets               LooseFloat  `json:"sets"`
	Reps               LooseFloat  `json:"reps"`
	Stroke             LooseString `json:"stroke"`
	Progress           LooseString `json:"progress"`
	IsStrengthTraining LooseBool   `json:"isStrengthTraining"`
	Combinations       LooseString `json:"combinations"`
}

// UnmarshalJSON picks the variant in a fixed order: a non-blank stroke means
// swimming, a strength flag means boxing, a weight means strength training.
// Anything else is a bare record.
func (e *ExerciseRecord) UnmarshalJSON(data []byte) error {
	var w exerciseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = ExerciseRecord{ID: string(w.ID), Name: string(w.Name)}
	switch {
	case !w.Stroke.Blank():
		e.Swim = &SwimEntry{Stroke: Stroke(w.Stroke), Progress: string(w.Progress)}
	case w.IsStrengthTraining.Present:
		e.Boxing = &BoxingEntry{
			IsStrengthTraining: w.IsStrengthTraining.Val,
			Combinations:       string(w.Combinations),
		}
	case w.Weight.Present:
		e.Strength = &StrengthSet{
			Weight: w.Weight.Or(0),
			Sets:   roundInt(w.Sets.Val),
			Reps:   roundInt(w.Reps.Val),
		}
	}
	return nil
}

func roundInt(f *float64) int {
	if f == nil {
		return 0
	}
	return int(math.Round(*f))
}

// RecordedStats is an optional body-metric snapshot taken at a session.
// Nil fields were not recorded.
type RecordedStats struct {
	Weight   *float64 `json:"weight,omitempty"`
	BodyFat  *float64 `json:"bodyFat,omitempty"`
	Injuries *string  `json:"injuries,omitempty"`
}

// Empty reports whether no field was recorded.
func (r *RecordedStats) Empty() bool {
	return r == nil || (r.Weight == nil && r.BodyFat == nil && r.Injuries == nil)
}

// WorkoutSession is one dated training record for one student.
type WorkoutSession struct {
	ID            string           `json:"id"`
	StudentID     string           `json:"studentId"`
	Date          string           `json:"date"`
	Category      Category         `json:"category,omitempty"`
	Exercises     []ExerciseRecord `json:"exercises"`
	CoachNotes    string           `json:"coachNotes"`
	RecordedStats *RecordedStats   `json:"recordedStats,omitempty"`
}

// DateLayout is the calendar-day format used for session dates.
const DateLayout = "2006-01-02"

// NormalizeDate keeps only the calendar-day part of a session date, so
// "2023-10-01T00:00:00.000Z" becomes "2023-10-01".
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

// Day formats t as a session date.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}
