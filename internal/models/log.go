package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used throughout session logs.
const DateLayout = "2006-01-02"

// Effort bounds for user-reported perceived exertion.
const (
	EffortMin = 1
	EffortMax = 5
)

// SetLog is one completed set.
type SetLog struct {
	Reps   int     `json:"reps" yaml:"reps"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// ExerciseLog records one exercise within a completed session: what was
// prescribed (targets) and what actually happened (sets, effort).
type ExerciseLog struct {
	ExerciseID   string   `json:"exerciseId" yaml:"exerciseId"`
	TargetReps   []int    `json:"targetReps" yaml:"targetReps"`
	TargetWeight float64  `json:"targetWeight" yaml:"targetWeight"`
	Sets         []SetLog `json:"sets" yaml:"sets"`
	Effort       int      `json:"effort" yaml:"effort"`
	Notes        string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate enforces the closed log schema at the load boundary. An empty
// Sets slice is legal (the session was logged without completed sets); a
// missing exercise ID or an out-of-range effort is not.
func (l *ExerciseLog) Validate() error {
	if l.ExerciseID == "" {
		return fmt.Errorf("exercise log has no exerciseId")
	}
	if l.Effort < EffortMin || l.Effort > EffortMax {
		return fmt.Errorf("exercise %q: effort %d out of range %d..%d", l.ExerciseID, l.Effort, EffortMin, EffortMax)
	}
	for i, set := range l.Sets {
		if set.Reps < 0 {
			return fmt.Errorf("exercise %q: set %d has negative reps", l.ExerciseID, i)
		}
		if set.Weight < 0 {
			return fmt.Errorf("exercise %q: set %d has negative weight", l.ExerciseID, i)
		}
	}
	return nil
}

// WorkoutSessionLog is one completed workout session. Logs are append-only;
// stored order is insertion order, so consumers re-sort by Date.
type WorkoutSessionLog struct {
	Date        string        `json:"date" yaml:"date"`
	WorkoutType string        `json:"workoutType" yaml:"workout"`
	Exercises   []ExerciseLog `json:"exercises" yaml:"exercises"`
}

// Validate enforces the closed session schema at the load boundary.
func (s *WorkoutSessionLog) Validate() error {
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("session date %q: %w", s.Date, err)
	}
	if s.WorkoutType == "" {
		return fmt.Errorf("session %s has no workout type", s.Date)
	}
	for i := range s.Exercises {
		if err := s.Exercises[i].Validate(); err != nil {
			return fmt.Errorf("session %s: %w", s.Date, err)
		}
	}
	return nil
}
