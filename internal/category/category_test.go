package category

import (
	"errors"
	"reflect"
	"testing"

	"github.com/claude/studentup/internal/models"
)

func ptr[T any](v T) *T { return &v }

// TestInferFromFirstExercise verifies the first-exercise heuristic used for
// untagged sessions.
func TestInferFromFirstExercise(t *testing.T) {
	tests := []struct {
		name string
		in   []models.ExerciseRecord
		want models.Category
	}{
		{"stroke", []models.ExerciseRecord{{Swim: &models.SwimEntry{Stroke: models.StrokeFreestyle}}}, models.CategorySwimming},
		{"strength flag", []models.ExerciseRecord{{Boxing: &models.BoxingEntry{}}}, models.CategoryBoxing},
		{"weight", []models.ExerciseRecord{{Strength: &models.StrengthSet{Weight: 20}}}, models.CategoryWorkout},
		{"bare", []models.ExerciseRecord{{Name: "伸展"}}, models.CategoryOther},
		{"empty", nil, models.CategoryOther},
		// only the first record counts
		{"first wins", []models.ExerciseRecord{{Name: "x"}, {Swim: &models.SwimEntry{}}}, models.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(tt.in); got != tt.want {
				t.Errorf("Infer() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestOfPrefersExplicitCategory verifies that a tagged session is never
// reclassified by its exercises.
func TestOfPrefersExplicitCategory(t *testing.T) {
	s := models.WorkoutSession{
		Category:  models.CategoryBoxing,
		Exercises: []models.ExerciseRecord{{Name: "跳繩"}},
	}
	if got := Of(s); got != models.CategoryBoxing {
		t.Errorf("Of() = %q, want boxing", got)
	}
	s.Category = ""
	if got := Of(s); got != models.CategoryOther {
		t.Errorf("Of(untagged) = %q, want other", got)
	}
}

// TestValidate verifies the per-category non-empty rule.
func TestValidate(t *testing.T) {
	weight := &models.RecordedStats{Weight: ptr(70.5)}
	injuries := &models.RecordedStats{Injuries: ptr("右肩緊繃")}
	swim := func(p string) []models.ExerciseRecord {
		return []models.ExerciseRecord{{Swim: &models.SwimEntry{Stroke: models.StrokeFreestyle, Progress: p}}}
	}
	box := func(flag bool, combo string) []models.ExerciseRecord {
		return []models.ExerciseRecord{{Boxing: &models.BoxingEntry{IsStrengthTraining: flag, Combinations: combo}}}
	}

	tests := []struct {
		name string
		c    models.Category
		d    Draft
		ok   bool
	}{
		{"strength empty", models.CategoryWorkout, Draft{}, false},
		{"strength exercise", models.CategoryWorkout, Draft{Exercises: []models.ExerciseRecord{{Strength: &models.StrengthSet{}}}}, true},
		{"strength stats only", models.CategoryWorkout, Draft{RecordedStats: weight}, true},
		{"swim blank progress", models.CategorySwimming, Draft{Exercises: swim("  ")}, false},
		{"swim progress", models.CategorySwimming, Draft{Exercises: swim("400m")}, true},
		{"swim stats", models.CategorySwimming, Draft{Exercises: swim(""), RecordedStats: injuries}, true},
		{"boxing nothing", models.CategoryBoxing, Draft{Exercises: box(false, "")}, false},
		{"boxing flag", models.CategoryBoxing, Draft{Exercises: box(true, "")}, true},
		{"boxing combo", models.CategoryBoxing, Draft{Exercises: box(false, "1-2")}, true},
		{"other notes", models.CategoryOther, Draft{CoachNotes: "伸展 30 分鐘"}, true},
		{"other empty", models.CategoryOther, Draft{}, false},
		{"empty stats struct", models.CategoryWorkout, Draft{RecordedStats: &models.RecordedStats{}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.c, tt.d)
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrEmptySession) {
				t.Errorf("Validate() = %v, want ErrEmptySession", err)
			}
		})
	}
}

// TestSummarize verifies the summary templates written to the sheet.
func TestSummarize(t *testing.T) {
	strength := []models.ExerciseRecord{
		{Name: "槓鈴深蹲", Strength: &models.StrengthSet{Weight: 60, Sets: 4, Reps: 10}},
		{Name: "臥推", Strength: &models.StrengthSet{Weight: 42.5, Sets: 3, Reps: 10}},
	}
	if got, want := Summarize(models.CategoryWorkout, strength), "槓鈴深蹲: 60kg x 10 x 4\n臥推: 42.5kg x 10 x 3"; got != want {
		t.Errorf("strength summary = %q, want %q", got, want)
	}

	swim := []models.ExerciseRecord{{Swim: &models.SwimEntry{Stroke: models.StrokeBreaststroke, Progress: "50m x 6"}}}
	if got, want := Summarize(models.CategorySwimming, swim), "[蛙式] 50m x 6"; got != want {
		t.Errorf("swim summary = %q, want %q", got, want)
	}

	box := []models.ExerciseRecord{
		{Boxing: &models.BoxingEntry{IsStrengthTraining: true, Combinations: "深蹲跳"}},
		{Boxing: &models.BoxingEntry{Combinations: "1-2-勾拳"}},
	}
	if got, want := Summarize(models.CategoryBoxing, box), "[肌力] 深蹲跳\n[技術] 1-2-勾拳"; got != want {
		t.Errorf("boxing summary = %q, want %q", got, want)
	}

	if got := Summarize(models.CategoryOther, strength); got != "" {
		t.Errorf("other summary = %q, want empty", got)
	}
}

// TestTag verifies both label sets.
func TestTag(t *testing.T) {
	if got := Tag(models.CategorySwimming, LangChinese); got != "游泳" {
		t.Errorf("Tag(swimming, zh) = %q", got)
	}
	if got := Tag(models.CategoryWorkout, LangEnglish); got != "Workout" {
		t.Errorf("Tag(workout, en) = %q", got)
	}
	if got := Tag(models.Category("yoga"), LangChinese); got != "其他" {
		t.Errorf("Tag(unknown, zh) = %q", got)
	}
}

// TestParseSummaryInvertsSummarize verifies that summaries can be turned back
// into records when the hidden JSON column is missing.
func TestParseSummaryInvertsSummarize(t *testing.T) {
	tests := []struct {
		c  models.Category
		in []models.ExerciseRecord
	}{
		{models.CategoryWorkout, []models.ExerciseRecord{
			{ID: "r1", Name: "槓鈴深蹲", Strength: &models.StrengthSet{Weight: 62.5, Sets: 5, Reps: 5}},
			{ID: "r2", Name: "Deadlift", Strength: &models.StrengthSet{Weight: 100, Sets: 1, Reps: 3}},
		}},
		{models.CategorySwimming, []models.ExerciseRecord{
			{ID: "r1", Name: "游泳紀錄", Swim: &models.SwimEntry{Stroke: models.StrokeBackstroke, Progress: "200m 換氣練習"}},
		}},
		{models.CategoryBoxing, []models.ExerciseRecord{
			{ID: "r1", Name: "拳擊紀錄", Boxing: &models.BoxingEntry{IsStrengthTraining: false, Combinations: "jab-cross"}},
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.c), func(t *testing.T) {
			got := ParseSummary(tt.c, Summarize(tt.c, tt.in))
			if !reflect.DeepEqual(got, tt.in) {
				t.Errorf("ParseSummary() = %+v, want %+v", got, tt.in)
			}
		})
	}
}

// TestParseSummarySkipsGarbage verifies that unparseable lines are dropped.
func TestParseSummarySkipsGarbage(t *testing.T) {
	got := ParseSummary(models.CategoryWorkout, "hello\n\n臥推: 40kg x 12 x 3\nnot a line")
	if len(got) != 1 || got[0].Name != "臥推" || got[0].Strength.Reps != 12 {
		t.Errorf("ParseSummary() = %+v", got)
	}
	if got[0].ID != "r3" {
		t.Errorf("ID = %q, want r3", got[0].ID)
	}
}

// TestDisplay verifies the history-view rendering of each record kind.
func TestDisplay(t *testing.T) {
	tests := []struct {
		in   models.ExerciseRecord
		want string
	}{
		{models.ExerciseRecord{Name: "臥推", Strength: &models.StrengthSet{Weight: 42.5, Sets: 3, Reps: 10}}, "臥推: 42.5kg x 10次 x 3組"},
		{models.ExerciseRecord{Swim: &models.SwimEntry{Stroke: models.StrokeFreestyle, Progress: "1km"}}, `[自由式] "1km"`},
		{models.ExerciseRecord{Boxing: &models.BoxingEntry{IsStrengthTraining: true, Combinations: "沙袋"}}, `[肌力專項] "沙袋"`},
		{models.ExerciseRecord{Name: "瑜珈"}, "瑜珈"},
	}
	for _, tt := range tests {
		if got := Display(tt.in); got != tt.want {
			t.Errorf("Display() = %q, want %q", got, tt.want)
		}
	}
}

// TestFieldsCoverEveryCategory verifies each category exposes the inputs its
// record shape needs.
func TestFieldsCoverEveryCategory(t *testing.T) {
	keys := func(c models.Category) []string {
		var out []string
		for _, f := range Fields(c) {
			out = append(out, f.Key)
		}
		return out
	}
	if got := keys(models.CategoryWorkout); !reflect.DeepEqual(got, []string{"name", "weight", "reps", "sets"}) {
		t.Errorf("workout fields = %v", got)
	}
	if got := keys(models.CategorySwimming); !reflect.DeepEqual(got, []string{"stroke", "progress"}) {
		t.Errorf("swimming fields = %v", got)
	}
	if got := keys(models.CategoryBoxing); !reflect.DeepEqual(got, []string{"isStrengthTraining", "combinations"}) {
		t.Errorf("boxing fields = %v", got)
	}
	if got := Fields(models.CategoryOther); got != nil {
		t.Errorf("other fields = %v, want nil", got)
	}
}

// TestCatalog verifies the catalog lists every category in order, with
// non-nil field lists.
func TestCatalog(t *testing.T) {
	cat := Catalog()
	if len(cat) != len(models.Categories) {
		t.Fatalf("len = %d, want %d", len(cat), len(models.Categories))
	}
	if cat[0].Category != models.CategoryWorkout || cat[0].Label != "健身 / Workout" {
		t.Errorf("first = %+v", cat[0])
	}
	last := cat[len(cat)-1]
	if last.Category != models.CategoryOther || last.Fields == nil || len(last.Fields) != 0 {
		t.Errorf("other = %+v", last)
	}
}
