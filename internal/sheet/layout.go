// Package sheet maps between header-keyed spreadsheet rows and the nested
// student/session model, for each supported sheet layout.
package sheet

import (
	"fmt"

	"github.com/claude/studentup/internal/category"
	"github.com/claude/studentup/internal/models"
)

// Sheet names.
const (
	StudentsSheet         = "Students"
	WorkoutsSheet         = "Workouts"
	FitnessWorkoutsSheet  = "Workouts_Fitness"
	SwimmingWorkoutsSheet = "Workouts_Swimming"
	BoxingWorkoutsSheet   = "Workouts_Boxing"
)

// Variant names a sheet layout.
type Variant string

const (
	// VariantChinese keeps all sessions in one sheet with Chinese headers and a
	// type column.
	VariantChinese Variant = "chinese"
	// VariantEnglish keeps all sessions in one sheet with English headers.
	VariantEnglish Variant = "english"
	// VariantSeparate splits sessions into one Chinese-headed sheet per
	// category and adds the student's name to each session row.
	VariantSeparate Variant = "separate"
)

type field int

const (
	fID field = iota
	fName
	fRole
	fCategory
	fHeight
	fWeight
	fBodyFat
	fInjuries
	fGoals
	fUpdatedAt
	fStudentID
	fStudentName
	fDate
	fCoachNotes
	fSummary
	fTypeTag
	fStatWeight
	fStatBodyFat
	fStatInjuries
	fRawJSON
)

// labels holds the Chinese and English header of every field. Reads accept
// either one.
var labels = map[field][2]string{
	fID:           {"ID", "id"},
	fName:         {"姓名", "name"},
	fRole:         {"角色", "role"},
	fCategory:     {"分類", "category"},
	fHeight:       {"身高", "height"},
	fWeight:       {"體重", "weight"},
	fBodyFat:      {"體脂", "bodyFat"},
	fInjuries:     {"傷病", "injuries"},
	fGoals:        {"目標", "goals"},
	fUpdatedAt:    {"更新時間", "updatedAt"},
	fStudentID:    {"學員ID", "studentId"},
	fStudentName:  {"姓名", "studentName"},
	fDate:         {"日期", "date"},
	fCoachNotes:   {"教練筆記", "coachNotes"},
	fSummary:      {"訓練摘要", "summary_content"},
	fTypeTag:      {"類型", "type_tag"},
	fStatWeight:   {"記錄體重", "stat_weight"},
	fStatBodyFat:  {"記錄體脂", "stat_bodyFat"},
	fStatInjuries: {"記錄傷病", "stat_injuries"},
	fRawJSON:      {"raw_json", "raw_json"},
}

var studentFields = []field{fID, fName, fRole, fCategory, fHeight, fWeight, fBodyFat, fInjuries, fGoals, fUpdatedAt}

// Layout describes which sheets and columns a variant uses.
type Layout struct {
	Variant       Variant
	lang          category.Lang
	workoutFields []field
	// sheetOf routes a session category to its sheet.
	sheetOf map[models.Category]string
	// sheets lists the workout sheets in read order.
	sheets []string
}

// NewLayout returns the layout of v.
func NewLayout(v Variant) (Layout, error) {
	switch v {
	case VariantChinese, VariantEnglish:
		l := Layout{
			Variant:       v,
			lang:          category.LangChinese,
			workoutFields: []field{fID, fStudentID, fDate, fCoachNotes, fSummary, fTypeTag, fStatWeight, fStatBodyFat, fStatInjuries, fRawJSON},
			sheetOf:       map[models.Category]string{},
			sheets:        []string{WorkoutsSheet},
		}
		if v == VariantEnglish {
			l.lang = category.LangEnglish
		}
		for _, c := range models.Categories {
			l.sheetOf[c] = WorkoutsSheet
		}
		return l, nil
	case VariantSeparate:
		return Layout{
			Variant:       v,
			lang:          category.LangChinese,
			workoutFields: []field{fID, fStudentID, fStudentName, fDate, fCoachNotes, fSummary, fStatWeight, fStatBodyFat, fStatInjuries, fRawJSON},
			sheetOf: map[models.Category]string{
				models.CategoryWorkout:  FitnessWorkoutsSheet,
				models.CategoryOther:    FitnessWorkoutsSheet,
				models.CategorySwimming: SwimmingWorkoutsSheet,
				models.CategoryBoxing:   BoxingWorkoutsSheet,
			},
			sheets: []string{FitnessWorkoutsSheet, SwimmingWorkoutsSheet, BoxingWorkoutsSheet},
		}, nil
	}
	return Layout{}, fmt.Errorf("unknown sheet layout %q", v)
}

// WorkoutSheets lists the sheets holding sessions, in read order.
func (l Layout) WorkoutSheets() []string {
	return append([]string(nil), l.sheets...)
}

// SheetFor returns the sheet a session of category c is written to.
func (l Layout) SheetFor(c models.Category) string {
	if name, ok := l.sheetOf[c]; ok {
		return name
	}
	return l.sheetOf[models.CategoryOther]
}

// sheetCategory returns the category a per-category sheet implies. Merged
// sheets and the fitness sheet (which also takes "other") imply none.
func sheetCategory(sheet string) (models.Category, bool) {
	switch sheet {
	case SwimmingWorkoutsSheet:
		return models.CategorySwimming, true
	case BoxingWorkoutsSheet:
		return models.CategoryBoxing, true
	}
	return "", false
}

func (l Layout) header(f field) string {
	if l.Variant == VariantEnglish {
		return labels[f][1]
	}
	return labels[f][0]
}

func (l Layout) headers(fields []field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = l.header(f)
	}
	return out
}
