package schedule

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Missing is one scheduled session that was never logged.
type Missing struct {
	Date        string `json:"date"`
	WorkoutType string `json:"workoutType"`
}

// MissingSessions walks every calendar date from startedAt through today,
// both inclusive, and lists the dates whose own weekday schedule assigned a
// workout that has no log entry. Only the exact day's schedule counts, no
// forward search. The result is in ascending date order by construction.
//
// "Already completed" is a membership test on the logged dates, not a
// stored flag: the only state transition the scanner recognizes is a log
// appearing for a due date.
func MissingSessions(plan *models.WorkoutPlan, startedAt, today time.Time, logs []models.WorkoutSessionLog) []Missing {
	if plan == nil || startedAt.IsZero() {
		return nil
	}

	logged := make(map[string]struct{}, len(logs))
	for _, l := range logs {
		logged[l.Date] = struct{}{}
	}

	var missing []Missing
	end := truncateToDay(today)
	for d := truncateToDay(startedAt); !d.After(end); d = d.AddDate(0, 0, 1) {
		name, ok := plan.DayWorkouts[int(d.Weekday())]
		if !ok || name == "" {
			continue
		}
		date := d.Format(models.DateLayout)
		if _, done := logged[date]; done {
			continue
		}
		missing = append(missing, Missing{Date: date, WorkoutType: name})
	}
	return missing
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
