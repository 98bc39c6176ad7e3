package models

import (
	"strings"
	"time"
)

// Role distinguishes the coach account from the students it manages.
type Role string

const (
	RoleCoach   Role = "COACH"
	RoleStudent Role = "STUDENT"
)

// Category is the sport a student trains in. It decides the shape of every
// exercise record logged for that student.
type Category string

const (
	CategoryWorkout  Category = "workout" // strength training
	CategorySwimming Category = "swimming"
	CategoryBoxing   Category = "boxing"
	CategoryOther    Category = "other"
)

// Categories lists the closed category set in display order.
var Categories = []Category{CategoryWorkout, CategorySwimming, CategoryBoxing, CategoryOther}

// categoryAliases maps lowercased localized or legacy labels to a Category.
var categoryAliases = map[string]Category{
	"workout":  CategoryWorkout,
	"fitness":  CategoryWorkout,
	"strength": CategoryWorkout,
	"健身":       CategoryWorkout,
	"swimming": CategorySwimming,
	"swim":     CategorySwimming,
	"游泳":       CategorySwimming,
	"boxing":   CategoryBoxing,
	"拳擊":       CategoryBoxing,
	"other":    CategoryOther,
	"其他":       CategoryOther,
}

// ParseCategory resolves a category label. Unknown labels map to CategoryOther
// and ok=false.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return CategoryOther, false
	}
	return c, true
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWorkout, CategorySwimming, CategoryBoxing, CategoryOther:
		return true
	}
	return false
}

// StudentStats is the current body-composition record of a student.
type StudentStats struct {
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
	BodyFat   float64 `json:"bodyFat"`
	Injuries  string  `json:"injuries"`
	Goals     string  `json:"goals"`
	UpdatedAt string  `json:"updatedAt"`
}

// Student is a roster entry. The JSON shape matches the stored "User" records.
type Student struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Role     Role         `json:"role"`
	Category Category     `json:"category"`
	Stats    StudentStats `json:"stats"`
}

// Snapshot is the whole persisted state: every student and every session.
type Snapshot struct {
	Students []Student        `json:"students"`
	Workouts []WorkoutSession `json:"workouts"`
}

// Timestamp formats t the way stats timestamps are stored (UTC, millisecond
// precision, trailing Z).
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
