package alpha

import (
	"strings"
	"testing"

	"github.com/claude/studentup/internal/models"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Reverse Lunges · Dumbbells · 10 reps"
#;KG;REPS;RIR
1;10;10;1
2;10;10;1
3;10;10;0
"5. Standing Calf Raises · Machine · 12 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;157,5;11;1
2;157,5;11;0
3;157,5;10;0
"6. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;1
3;+0;12;0

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps<br>WU3 · 77,5 kg · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

// TestParseExportIntoStrengthRecords verifies what each exercise of the
// first fixture session becomes once logged: the heaviest working set and the
// number of working sets, with decimal commas and added weight resolved.
func TestParseExportIntoStrengthRecords(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	w := ToSession(sessions[0])
	if w.Date != "2026-02-19" {
		t.Errorf("Date = %q, want 2026-02-19", w.Date)
	}
	if w.CoachNotes != "Legs · Day 2 · Week 4 · Push-Pull-Legs (1:02 hr)" {
		t.Errorf("CoachNotes = %q", w.CoachNotes)
	}

	want := []struct {
		id, name string
		set      models.StrengthSet
	}{
		{"a1", "Hack Squats", models.StrengthSet{Weight: 115, Sets: 3, Reps: 8}},
		{"a2", "Sumo Squats", models.StrengthSet{Weight: 70, Sets: 2, Reps: 8}},
		{"a3", "Hyperextensions on Roman Chair", models.StrengthSet{Weight: 35, Sets: 3, Reps: 10}},
		{"a4", "Reverse Lunges", models.StrengthSet{Weight: 10, Sets: 3, Reps: 10}},
		{"a5", "Standing Calf Raises", models.StrengthSet{Weight: 157.5, Sets: 3, Reps: 11}},
		{"a6", "Hanging Leg Raises", models.StrengthSet{Weight: 0, Sets: 3, Reps: 12}},
	}
	if len(w.Exercises) != len(want) {
		t.Fatalf("exercises = %d, want %d", len(w.Exercises), len(want))
	}
	for i, tt := range want {
		got := w.Exercises[i]
		if got.ID != tt.id || got.Name != tt.name {
			t.Errorf("record %d = %s %q, want %s %q", i, got.ID, got.Name, tt.id, tt.name)
		}
		if got.Kind() != models.CategoryWorkout || *got.Strength != tt.set {
			t.Errorf("%s: strength = %+v, want %+v", tt.name, got.Strength, tt.set)
		}
	}
}

// TestParseSeparatesWarmups verifies that warm-ups listed in the exercise
// header are kept apart from the working sets that follow it.
func TestParseSeparatesWarmups(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantWarmups := []int{2, 1, 1, 0, 1, 0}
	for i, ex := range sessions[0].Exercises {
		warmups := 0
		for _, s := range ex.Sets {
			if s.IsWarmup {
				warmups++
			}
		}
		if warmups != wantWarmups[i] {
			t.Errorf("%s: warm-ups = %d, want %d", ex.Name, warmups, wantWarmups[i])
		}
	}

	// the 77,5 kg warm-up must not count towards the bench press top set
	bench := sessions[1].Exercises[0]
	if top, n := topSet(bench.Sets); top.WeightKg != 102.5 || n != 3 {
		t.Errorf("bench top set = %v kg over %d sets, want 102.5 over 3", top.WeightKg, n)
	}
	if wu := bench.Sets[2]; !wu.IsWarmup || wu.WeightKg != 77.5 || wu.Reps != 6 {
		t.Errorf("third warm-up = %+v", wu)
	}
}

// TestParseWeight verifies decimal commas and the added-weight notation.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantBW bool
	}{
		{"115", 115, false},
		{"102,5", 102.5, false},
		{" 157,5 ", 157.5, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{"+2,5", 2.5, true},
	}
	for _, tt := range tests {
		got, bw := parseWeight(tt.in)
		if got != tt.want || bw != tt.wantBW {
			t.Errorf("parseWeight(%q) = %v, %v, want %v, %v", tt.in, got, bw, tt.want, tt.wantBW)
		}
	}
}

// TestParseRejectsMalformedExports verifies that rows out of place and
// unreadable dates fail the whole export, while empty input is no error.
func TestParseRejectsMalformedExports(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"empty", "", ""},
		{"exercise without session", `"1. Bench Press · Barbell · 6 reps"`, "exercise without session"},
		{"set without exercise", "\"Push\";\"2026-02-17 5:04 h\";\"1:12 hr\"\n1;100;6;0", "set data without exercise"},
		{"bad date", `"Push";"2026-02-30 5:04 h";"1:12 hr"`, "parsing session date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions, err := Parse(strings.NewReader(tt.in))
			if tt.wantErr == "" {
				if err != nil || len(sessions) != 0 {
					t.Errorf("Parse = %d sessions, %v; want none", len(sessions), err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
