// Package category dispatches category-dependent behaviour: which exercise
// fields a session form collects, when a session counts as empty, how an
// exercise list is summarized and tagged, and how one record is displayed.
//
// The category set is closed. Every function switches over the four values;
// adding a category means extending each switch.
package category

import (
	"errors"
	"strconv"
	"strings"

	"github.com/claude/studentup/internal/models"
)

// ErrEmptySession is returned by Validate when a draft records nothing.
var ErrEmptySession = errors.New("session records nothing")

// Field describes one exercise-entry input.
type Field struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Type    string   `json:"type"` // text, number, bool or choice
	Choices []string `json:"choices,omitempty"`
}

// Fields returns the exercise-entry inputs relevant to c.
func Fields(c models.Category) []Field {
	switch c {
	case models.CategoryWorkout:
		return []Field{
			{Key: "name", Label: "動作項目", Type: "text"},
			{Key: "weight", Label: "重量 (kg)", Type: "number"},
			{Key: "reps", Label: "次數", Type: "number"},
			{Key: "sets", Label: "組數", Type: "number"},
		}
	case models.CategorySwimming:
		choices := make([]string, len(models.Strokes))
		for i, s := range models.Strokes {
			choices[i] = string(s)
		}
		return []Field{
			{Key: "stroke", Label: "泳姿", Type: "choice", Choices: choices},
			{Key: "progress", Label: "訓練進度", Type: "text"},
		}
	case models.CategoryBoxing:
		return []Field{
			{Key: "isStrengthTraining", Label: "肌力專項", Type: "bool"},
			{Key: "combinations", Label: "組合拳訓練細節", Type: "text"},
		}
	}
	return nil
}

// Draft is the coach's input for one session before it is stored.
type Draft struct {
	Exercises     []models.ExerciseRecord
	CoachNotes    string
	RecordedStats *models.RecordedStats
}

// Validate applies the non-empty rule of c. A stat update always suffices.
func Validate(c models.Category, d Draft) error {
	if !d.RecordedStats.Empty() {
		return nil
	}
	ok := false
	switch c {
	case models.CategoryWorkout:
		ok = len(d.Exercises) > 0
	case models.CategorySwimming:
		if len(d.Exercises) > 0 && d.Exercises[0].Swim != nil {
			ok = strings.TrimSpace(d.Exercises[0].Swim.Progress) != ""
		}
	case models.CategoryBoxing:
		if len(d.Exercises) > 0 && d.Exercises[0].Boxing != nil {
			b := d.Exercises[0].Boxing
			ok = b.IsStrengthTraining || strings.TrimSpace(b.Combinations) != ""
		}
	case models.CategoryOther:
		ok = strings.TrimSpace(d.CoachNotes) != ""
	}
	if !ok {
		return ErrEmptySession
	}
	return nil
}

// Infer guesses a category from the first exercise: a stroke means swimming,
// a strength flag means boxing, a weight means strength training. Used only for
// sessions stored without an explicit category.
func Infer(exercises []models.ExerciseRecord) models.Category {
	if len(exercises) == 0 {
		return models.CategoryOther
	}
	return exercises[0].Kind()
}

// Of returns the session's explicit category, falling back to Infer.
func Of(s models.WorkoutSession) models.Category {
	if s.Category.Valid() {
		return s.Category
	}
	return Infer(s.Exercises)
}

// Lang selects the label set for type tags.
type Lang int

const (
	LangChinese Lang = iota
	LangEnglish
)

// Tag returns the type-tag label for c.
func Tag(c models.Category, lang Lang) string {
	if lang == LangEnglish {
		switch c {
		case models.CategoryWorkout:
			return "Workout"
		case models.CategorySwimming:
			return "Swimming"
		case models.CategoryBoxing:
			return "Boxing"
		}
		return "Other"
	}
	switch c {
	case models.CategoryWorkout:
		return "健身"
	case models.CategorySwimming:
		return "游泳"
	case models.CategoryBoxing:
		return "拳擊"
	}
	return "其他"
}

// Summarize renders the exercise list with c's summary template, one line per
// record. Category other has no template and yields "".
func Summarize(c models.Category, exercises []models.ExerciseRecord) string {
	if len(exercises) == 0 || c == models.CategoryOther || !c.Valid() {
		return ""
	}
	lines := make([]string, 0, len(exercises))
	for _, e := range exercises {
		lines = append(lines, summaryLine(c, e))
	}
	return strings.Join(lines, "\n")
}

func summaryLine(c models.Category, e models.ExerciseRecord) string {
	switch c {
	case models.CategorySwimming:
		var sw models.SwimEntry
		if e.Swim != nil {
			sw = *e.Swim
		}
		return "[" + string(sw.Stroke) + "] " + sw.Progress
	case models.CategoryBoxing:
		var b models.BoxingEntry
		if e.Boxing != nil {
			b = *e.Boxing
		}
		if b.IsStrengthTraining {
			return "[肌力] " + b.Combinations
		}
		return "[技術] " + b.Combinations
	}
	var st models.StrengthSet
	if e.Strength != nil {
		st = *e.Strength
	}
	return e.Name + ": " + FormatNumber(st.Weight) + "kg x " + strconv.Itoa(st.Reps) + " x " + strconv.Itoa(st.Sets)
}

// Display renders one record for a training-history view.
func Display(e models.ExerciseRecord) string {
	switch e.Kind() {
	case models.CategoryWorkout:
		return e.Name + ": " + FormatNumber(e.Strength.Weight) + "kg x " +
			strconv.Itoa(e.Strength.Reps) + "次 x " + strconv.Itoa(e.Strength.Sets) + "組"
	case models.CategorySwimming:
		return "[" + string(e.Swim.Stroke) + "] \"" + e.Swim.Progress + "\""
	case models.CategoryBoxing:
		if e.Boxing.IsStrengthTraining {
			return "[肌力專項] \"" + e.Boxing.Combinations + "\""
		}
		return "\"" + e.Boxing.Combinations + "\""
	}
	return e.Name
}

// FormatNumber prints f without trailing zeros: 60, 42.5.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Info describes one category for clients choosing what to log.
type Info struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	Fields   []Field         `json:"fields"`
}

// Catalog lists every category with its bilingual label and form fields.
func Catalog() []Info {
	out := make([]Info, 0, len(models.Categories))
	for _, c := range models.Categories {
		fields := Fields(c)
		if fields == nil {
			fields = []Field{}
		}
		out = append(out, Info{
			Category: c,
			Label:    Tag(c, LangChinese) + " / " + Tag(c, LangEnglish),
			Fields:   fields,
		})
	}
	return out
}
