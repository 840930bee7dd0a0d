// Package progression computes next-session weight suggestions from logged
// performance. It is a pure read layer: plans and log history are never
// mutated.
package progression

import (
	"math"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/models"
)

// Engine applies the autoregulation rule configured in
// config.ProgressionConfig.
type Engine struct {
	cfg config.ProgressionConfig
}

// New creates a progression engine with the given factors.
func New(cfg config.ProgressionConfig) *Engine {
	return &Engine{cfg: cfg}
}

// SuggestNextWeight recommends the next working weight from the most recent
// logged performance of an exercise.
//
// The rule is deliberately conservative: full completion at moderate or
// lower effort earns an increase, full completion at effort 4 holds, and a
// significant rep shortfall or maximal effort deloads. A shortfall inside
// the LowRepRatio..1 band at effort 3 or below holds the weight; the
// neutral band is preserved as-is pending product clarification.
//
// Logs without completed sets or without rep targets carry no usable signal
// and return the prescribed target weight unchanged.
func (e *Engine) SuggestNextWeight(last models.ExerciseLog) float64 {
	if len(last.Sets) == 0 || len(last.TargetReps) == 0 {
		return last.TargetWeight
	}

	lastSet := last.Sets[len(last.Sets)-1]

	// Target for the final set's position, first target when the position
	// has no explicit entry.
	target := last.TargetReps[0]
	if i := len(last.Sets) - 1; i < len(last.TargetReps) {
		target = last.TargetReps[i]
	}
	if target <= 0 {
		return last.TargetWeight
	}

	repRatio := float64(lastSet.Reps) / float64(target)
	weight := lastSet.Weight

	switch {
	case repRatio >= 1 && last.Effort <= 3:
		return math.Round(weight * e.cfg.IncreaseFactor)
	case repRatio >= 1 && last.Effort == 4:
		return weight
	case repRatio < e.cfg.LowRepRatio || last.Effort == 5:
		return math.Round(weight * e.cfg.DeloadFactor)
	}
	return weight
}

// ResolvePrescription returns the workout's prescriptions with each starting
// weight replaced by the suggestion derived from the most recent session of
// that workout type. Logs may arrive in any order; the latest date wins and
// input order breaks ties. Exercises without a prior log keep their original
// starting weight. The plan and logs are never modified.
func (e *Engine) ResolvePrescription(plan *models.WorkoutPlan, workoutName string, logs []models.WorkoutSessionLog) []models.WorkoutExercise {
	if plan == nil {
		return nil
	}
	prescribed := plan.Workouts[workoutName]
	out := append([]models.WorkoutExercise(nil), prescribed...)

	lastSession := latestSession(logs, workoutName)
	if lastSession == nil {
		return out
	}

	for i := range out {
		if lastLog, ok := findExerciseLog(lastSession, out[i].ExerciseID); ok {
			out[i].StartingWeight = e.SuggestNextWeight(lastLog)
		}
	}
	return out
}

// latestSession finds the most recent session of the given workout type.
// ISO dates compare lexicographically; strict "greater than" keeps the
// earliest-seen entry on date ties.
func latestSession(logs []models.WorkoutSessionLog, workoutName string) *models.WorkoutSessionLog {
	var latest *models.WorkoutSessionLog
	for i := range logs {
		if logs[i].WorkoutType != workoutName {
			continue
		}
		if latest == nil || logs[i].Date > latest.Date {
			latest = &logs[i]
		}
	}
	return latest
}

func findExerciseLog(session *models.WorkoutSessionLog, exerciseID string) (models.ExerciseLog, bool) {
	for _, l := range session.Exercises {
		if l.ExerciseID == exerciseID {
			return l, true
		}
	}
	return models.ExerciseLog{}, false
}
