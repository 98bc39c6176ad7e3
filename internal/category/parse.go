package category

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/studentup/internal/models"
)

var (
	// strengthLineRe matches: 槓鈴深蹲: 60kg x 10 x 4
	strengthLineRe = regexp.MustCompile(`^(.*):\s*([-+]?[\d.]+|undefined)kg\s*x\s*([\d.]+|undefined)\s*x\s*([\d.]+|undefined)$`)

	// swimLineRe matches: [自由式] 50m x 4
	swimLineRe = regexp.MustCompile(`^\[([^\]]*)\]\s?(.*)$`)
)

// ParseSummary rebuilds exercise records from a summary written by Summarize.
// It is best-effort: lines that do not fit c's template are skipped. Record IDs
// are derived from the line position.
func ParseSummary(c models.Category, summary string) []models.ExerciseRecord {
	out := []models.ExerciseRecord{}
	summary = strings.ReplaceAll(summary, "\r\n", "\n")
	for i, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id := "r" + strconv.Itoa(i+1)
		switch c {
		case models.CategoryWorkout:
			m := strengthLineRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			out = append(out, models.ExerciseRecord{
				ID:   id,
				Name: strings.TrimSpace(m[1]),
				Strength: &models.StrengthSet{
					Weight: parseFloat(m[2]),
					Reps:   int(parseFloat(m[3])),
					Sets:   int(parseFloat(m[4])),
				},
			})
		case models.CategorySwimming:
			m := swimLineRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			stroke, ok := models.ParseStroke(m[1])
			if !ok {
				stroke = models.Stroke(m[1])
			}
			out = append(out, models.ExerciseRecord{
				ID:   id,
				Name: "游泳紀錄",
				Swim: &models.SwimEntry{Stroke: stroke, Progress: m[2]},
			})
		case models.CategoryBoxing:
			m := swimLineRe.FindStringSubmatch(line)
			if m == nil || (m[1] != "肌力" && m[1] != "技術") {
				continue
			}
			out = append(out, models.ExerciseRecord{
				ID:     id,
				Name:   "拳擊紀錄",
				Boxing: &models.BoxingEntry{IsStrengthTraining: m[1] == "肌力", Combinations: m[2]},
			})
		}
	}
	return out
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
