package storage

import "github.com/claude/liftlog/internal/models"

// DefaultPlanID identifies the built-in starter plan.
const DefaultPlanID = "3m-machine"

// DefaultMachinePlan returns the built-in 3-month machine plan: two
// alternating full-body machine workouts, four training days a week.
func DefaultMachinePlan() *models.WorkoutPlan {
	return &models.WorkoutPlan{
		ID:            DefaultPlanID,
		Name:          "3-Month Machine Plan",
		DurationWeeks: 12,
		DayWorkouts: map[int]string{
			1: "FullBodyA",
			2: "FullBodyB",
			4: "FullBodyA",
			5: "FullBodyB",
		},
		Workouts: map[string][]models.WorkoutExercise{
			"FullBodyA": {
				{ExerciseID: "leg-press", TargetReps: []int{12, 12, 12}, StartingWeight: 120, Sets: 3},
				{ExerciseID: "chest-press", TargetReps: []int{12, 12, 12}, StartingWeight: 80, Sets: 3},
				{ExerciseID: "lat-pulldown", TargetReps: []int{12, 12, 12}, StartingWeight: 70, Sets: 3},
				{ExerciseID: "seated-row", TargetReps: []int{12, 12, 12}, StartingWeight: 60, Sets: 3},
			},
			"FullBodyB": {
				{ExerciseID: "leg-curl", TargetReps: []int{12, 12, 12}, StartingWeight: 60, Sets: 3},
				{ExerciseID: "pec-deck", TargetReps: []int{15, 15, 15}, StartingWeight: 50, Sets: 3},
				{ExerciseID: "shoulder-press", TargetReps: []int{12, 12, 12}, StartingWeight: 40, Sets: 3},
				{ExerciseID: "hip-abduction", TargetReps: []int{15, 15, 15}, StartingWeight: 50, Sets: 3},
			},
		},
	}
}

// SeedDefaultPlans inserts the built-in plan when it does not exist yet.
// Reports whether a plan was inserted; running it repeatedly is safe and
// never overwrites a user's edited copy.
func (s *Store) SeedDefaultPlans() (bool, error) {
	existing, err := s.LoadPlan(DefaultPlanID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if err := s.SavePlan(DefaultMachinePlan()); err != nil {
		return false, err
	}
	s.log.Info("seeded default plan", "id", DefaultPlanID)
	return true, nil
}
