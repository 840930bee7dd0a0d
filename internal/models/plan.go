package models

import "fmt"

// WorkoutExercise is one prescribed exercise within a named workout:
// planned sets, per-set rep targets, and the working weight to start from.
type WorkoutExercise struct {
	ExerciseID     string  `json:"exerciseId" yaml:"exerciseId"`
	TargetReps     []int   `json:"targetReps" yaml:"targetReps"`
	StartingWeight float64 `json:"startingWeight" yaml:"startingWeight"`
	Sets           int     `json:"sets" yaml:"sets"`
}

// WorkoutPlan is a recurring weekly training plan. DayWorkouts maps weekdays
// (0 = Sunday .. 6 = Saturday) to workout names; absent keys are rest days.
// Plans are immutable once selected as current; edits create a new plan.
type WorkoutPlan struct {
	ID            string                       `json:"id" yaml:"id"`
	Name          string                       `json:"name" yaml:"name"`
	DurationWeeks int                          `json:"durationWeeks" yaml:"durationWeeks"`
	DayWorkouts   map[int]string               `json:"dayWorkouts" yaml:"dayWorkouts"`
	Workouts      map[string][]WorkoutExercise `json:"workouts" yaml:"workouts"`
}

// Validate checks the structural invariants: weekdays in range and every
// scheduled workout name present in Workouts.
func (p *WorkoutPlan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("plan name is required")
	}
	if p.DurationWeeks <= 0 {
		return fmt.Errorf("plan %q: durationWeeks must be positive", p.Name)
	}
	for day, workout := range p.DayWorkouts {
		if day < 0 || day > 6 {
			return fmt.Errorf("plan %q: weekday %d out of range 0..6", p.Name, day)
		}
		if workout == "" {
			return fmt.Errorf("plan %q: weekday %d maps to an empty workout name", p.Name, day)
		}
		if _, ok := p.Workouts[workout]; !ok {
			return fmt.Errorf("plan %q: scheduled workout %q has no definition", p.Name, workout)
		}
	}
	for name, exercises := range p.Workouts {
		for i, ex := range exercises {
			if ex.ExerciseID == "" {
				return fmt.Errorf("plan %q: workout %q exercise %d has no exerciseId", p.Name, name, i)
			}
			if ex.Sets <= 0 {
				return fmt.Errorf("plan %q: workout %q exercise %q: sets must be positive", p.Name, name, ex.ExerciseID)
			}
		}
	}
	return nil
}
