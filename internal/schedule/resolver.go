// Package schedule resolves which workout a plan's weekly schedule assigns
// to a date and scans for scheduled sessions that were never logged.
package schedule

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// NextWorkoutType returns the workout due on or after the given date. The
// scan starts offset weekdays ahead (offset 0 asks "what's due today",
// offset 1 "what's due after today's session") and wraps through at most
// seven slots. Reports false when no weekday in the plan has an assigned
// workout — a valid outcome for an empty schedule, not an error.
func NextWorkoutType(plan *models.WorkoutPlan, date time.Time, offset int) (string, bool) {
	if plan == nil {
		return "", false
	}
	start := ((int(date.Weekday())+offset)%7 + 7) % 7
	for i := 0; i < 7; i++ {
		day := (start + i) % 7
		if name, ok := plan.DayWorkouts[day]; ok && name != "" {
			return name, true
		}
	}
	return "", false
}
