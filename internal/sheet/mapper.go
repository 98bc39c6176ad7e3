package sheet

import (
	"encoding/json"
	"strings"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
	"github.com/claude/studentup/internal/tabular"
)

// rawPayload is the content of the hidden raw_json column.
type rawPayload struct {
	Exercises []models.ExerciseRecord `json:"exercises"`
	Category  models.Category         `json:"category,omitempty"`
}

// StudentFromRow rebuilds a student from a row of the Students sheet. Missing
// numbers read as 0.
func StudentFromRow(r Row) models.Student {
	s := models.Student{
		ID:   r.str(fID),
		Name: r.str(fName),
		Role: models.Role(r.str(fRole)),
	}
	if s.Role == "" {
		s.Role = models.RoleStudent
	}
	if c, ok := models.ParseCategory(r.str(fCategory)); ok {
		s.Category = c
	} else {
		s.Category = models.CategoryOther
	}
	s.Stats.Height, _ = r.num(fHeight)
	s.Stats.Weight, _ = r.num(fWeight)
	s.Stats.BodyFat, _ = r.num(fBodyFat)
	s.Stats.Injuries = r.str(fInjuries)
	s.Stats.Goals = r.str(fGoals)
	s.Stats.UpdatedAt = r.str(fUpdatedAt)
	return s
}

// SessionFromRow rebuilds a session from a row of the named workout sheet.
//
// The exercise list comes from raw_json. A malformed raw_json yields an empty
// list. Rows without raw_json get their list parsed back from the summary
// column.
func SessionFromRow(sheetName string, r Row) models.WorkoutSession {
	s := models.WorkoutSession{
		ID:         r.str(fID),
		StudentID:  r.str(fStudentID),
		Date:       r.date(fDate),
		CoachNotes: r.str(fCoachNotes),
		Exercises:  []models.ExerciseRecord{},
	}

	if raw := strings.TrimSpace(r.str(fRawJSON)); raw != "" {
		var p rawPayload
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			if p.Exercises != nil {
				s.Exercises = p.Exercises
			}
			if p.Category.Valid() {
				s.Category = p.Category
			}
		}
	} else {
		hint, ok := sheetCategory(sheetName)
		if !ok {
			hint, ok = models.ParseCategory(r.str(fTypeTag))
		}
		if !ok {
			hint = models.CategoryWorkout
		}
		s.Exercises = category.ParseSummary(hint, r.str(fSummary))
	}

	var rs models.RecordedStats
	if w, ok := r.num(fStatWeight); ok {
		rs.Weight = &w
	}
	if bf, ok := r.num(fStatBodyFat); ok {
		rs.BodyFat = &bf
	}
	if inj := r.str(fStatInjuries); inj != "" {
		rs.Injuries = &inj
	}
	if !rs.Empty() {
		s.RecordedStats = &rs
	}
	return s
}

// StudentTable renders students as the Students sheet.
func (l Layout) StudentTable(students []models.Student) tabular.Table {
	t := tabular.Table{
		Headers: l.headers(studentFields),
		Rows:    make([][]any, 0, len(students)),
	}
	for _, s := range students {
		t.Rows = append(t.Rows, []any{
			s.ID, s.Name, string(s.Role), string(s.Category),
			s.Stats.Height, s.Stats.Weight, s.Stats.BodyFat,
			s.Stats.Injuries, s.Stats.Goals, s.Stats.UpdatedAt,
		})
	}
	return t
}

// WorkoutTables renders sessions into every workout sheet of the layout.
// Sheets without sessions are still returned, with only a header row, so
// writing them clears stale rows. names maps student IDs to display names for
// layouts that carry one.
func (l Layout) WorkoutTables(sessions []models.WorkoutSession, names map[string]string) (map[string]tabular.Table, error) {
	tables := make(map[string]tabular.Table, len(l.sheets))
	for _, name := range l.sheets {
		tables[name] = tabular.Table{
			Headers: l.headers(l.workoutFields),
			Rows:    [][]any{},
			Hidden:  []string{l.header(fRawJSON)},
		}
	}

	for _, s := range sessions {
		c := category.Of(s)
		exercises := s.Exercises
		if exercises == nil {
			exercises = []models.ExerciseRecord{}
		}
		raw, err := json.Marshal(rawPayload{Exercises: exercises, Category: s.Category})
		if err != nil {
			return nil, err
		}

		var rs models.RecordedStats
		if s.RecordedStats != nil {
			rs = *s.RecordedStats
		}

		row := make([]any, 0, len(l.workoutFields))
		for _, f := range l.workoutFields {
			switch f {
			case fID:
				row = append(row, s.ID)
			case fStudentID:
				row = append(row, s.StudentID)
			case fStudentName:
				row = append(row, names[s.StudentID])
			case fDate:
				row = append(row, models.NormalizeDate(s.Date))
			case fCoachNotes:
				row = append(row, s.CoachNotes)
			case fSummary:
				row = append(row, category.Summarize(c, s.Exercises))
			case fTypeTag:
				row = append(row, category.Tag(c, l.lang))
			case fStatWeight:
				row = append(row, floatCell(rs.Weight))
			case fStatBodyFat:
				row = append(row, floatCell(rs.BodyFat))
			case fStatInjuries:
				row = append(row, stringCell(rs.Injuries))
			case fRawJSON:
				row = append(row, string(raw))
			}
		}

		sheetName := l.SheetFor(c)
		t := tables[sheetName]
		t.Rows = append(t.Rows, row)
		tables[sheetName] = t
	}
	return tables, nil
}

// NameIndex maps student IDs to names.
func NameIndex(students []models.Student) map[string]string {
	out := make(map[string]string, len(students))
	for _, s := range students {
		out[s.ID] = s.Name
	}
	return out
}
