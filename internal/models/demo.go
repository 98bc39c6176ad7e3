package models

import "time"

// DemoStudents returns the seed roster used when nothing has been stored yet.
func DemoStudents(now time.Time) []Student {
	ts := Timestamp(now)
	return []Student{
		{
			ID:       "s1",
			Name:     "陳小明",
			Role:     RoleStudent,
			Category: CategoryWorkout,
			Stats: StudentStats{
				Height:    175,
				Weight:    70,
				BodyFat:   18,
				Injuries:  "左膝蓋有舊傷",
				Goals:     "增肌 5kg，深蹲達到 100kg",
				UpdatedAt: ts,
			},
		},
		{
			ID:       "s2",
			Name:     "林美玲",
			Role:     RoleStudent,
			Category: CategoryOther,
			Stats: StudentStats{
				Height:    160,
				Weight:    52,
				BodyFat:   22,
				Injuries:  "無",
				Goals:     "改善體態與柔軟度，能完成頭倒立",
				UpdatedAt: ts,
			},
		},
	}
}

// DemoWorkouts returns the two seed sessions of student s1.
func DemoWorkouts() []WorkoutSession {
	return []WorkoutSession{
		{
			ID:        "w1",
			StudentID: "s1",
			Date:      "2023-10-01",
			Exercises: []ExerciseRecord{
				{ID: "e1", Name: "槓鈴深蹲", Strength: &StrengthSet{Weight: 60, Sets: 4, Reps: 10}},
				{ID: "e2", Name: "臥推", Strength: &StrengthSet{Weight: 40, Sets: 3, Reps: 12}},
			},
			CoachNotes: "動作穩定，可以嘗試增重。",
		},
		{
			ID:        "w2",
			StudentID: "s1",
			Date:      "2023-10-08",
			Exercises: []ExerciseRecord{
				{ID: "e3", Name: "槓鈴深蹲", Strength: &StrengthSet{Weight: 65, Sets: 4, Reps: 8}},
				{ID: "e4", Name: "臥推", Strength: &StrengthSet{Weight: 42.5, Sets: 3, Reps: 10}},
			},
			CoachNotes: "增重後動作稍微變形，注意核心出力。",
		},
	}
}

// DemoSnapshot is the full seed dataset.
func DemoSnapshot(now time.Time) Snapshot {
	return Snapshot{Students: DemoStudents(now), Workouts: DemoWorkouts()}
}

// WithDemoDefaults substitutes the seed students and seed workouts
// independently for whichever collection is empty.
func WithDemoDefaults(s Snapshot, now time.Time) Snapshot {
	if len(s.Students) == 0 {
		s.Students = DemoStudents(now)
	}
	if len(s.Workouts) == 0 {
		s.Workouts = DemoWorkouts()
	}
	return s
}
