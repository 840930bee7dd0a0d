package models

// ExerciseRecord is one entry in the static exercise dataset. Records are
// immutable once loaded; identity is ID.
type ExerciseRecord struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Equipments       []string `json:"equipments"`
	TargetMuscles    []string `json:"targetMuscles"`
	BodyParts        []string `json:"bodyParts"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
}

// Valid reports whether the record carries the fields required for lookup
// and search. Records failing this check are dropped at the load boundary.
func (e ExerciseRecord) Valid() bool {
	return e.ID != "" && e.Name != ""
}
