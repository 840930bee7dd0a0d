package models

import "time"

// StateSchemaVersion is the current AppState blob schema. Blobs written
// before versioning carry 0 and are accepted as version 1.
const StateSchemaVersion = 1

// AppState is the single persisted application record: the selected plan,
// when it was started, and the append-only session history. The core never
// reaches into ambient storage; state is always passed in explicitly and
// only the session-completion flow appends to Logs.
type AppState struct {
	SchemaVersion   int                 `json:"schemaVersion"`
	CurrentPlanID   string              `json:"currentPlanId"`
	PlanStartedAt   string              `json:"planStartedAt"`
	LastSessionDate string              `json:"lastSessionDate"`
	Logs            []WorkoutSessionLog `json:"logs"`
}

// NewAppState returns the empty default state used on first run.
func NewAppState() *AppState {
	return &AppState{
		SchemaVersion: StateSchemaVersion,
		Logs:          []WorkoutSessionLog{},
	}
}

// PlanStart parses PlanStartedAt, accepting either a full timestamp or a
// bare calendar date. Reports false when no plan has been started.
func (s *AppState) PlanStart() (time.Time, bool) {
	if s.PlanStartedAt == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s.PlanStartedAt); err == nil {
		return t, true
	}
	if t, err := time.Parse(DateLayout, s.PlanStartedAt); err == nil {
		return t, true
	}
	return time.Time{}, false
}
