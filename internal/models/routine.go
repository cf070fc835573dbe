package models

import "time"

type RoutineType string

const (
	RoutineSleep    RoutineType = "sleep"
	RoutineBath     RoutineType = "bath"
	RoutineExercise RoutineType = "exercise"
	RoutineMeal     RoutineType = "meal"
	RoutineTeeth    RoutineType = "teeth"
	RoutineWater    RoutineType = "water"
)

// RoutineTypes lists every routine type in canonical order. The order is
// load-bearing: the timeline flattens the catalog in this order, and ties
// between equally ranked entries keep it.
var RoutineTypes = []RoutineType{
	RoutineSleep,
	RoutineBath,
	RoutineExercise,
	RoutineMeal,
	RoutineTeeth,
	RoutineWater,
}

// Valid reports whether t is one of the closed set of routine types.
func (t RoutineType) Valid() bool {
	for _, rt := range RoutineTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ScheduledInstance is one recurring time-of-day activity owned by a goal.
type ScheduledInstance struct {
	ID          string         `json:"id"`
	Type        RoutineType    `json:"type"`
	Time        string         `json:"time"` // HH:MM format
	DurationMin int            `json:"duration_min"`
	Label       string         `json:"label"`
	Icon        string         `json:"icon,omitempty"`
	Nap         bool           `json:"nap,omitempty"` // sleep-nested nap entry
	Position    int            `json:"position"`
	Completed   ComplianceMark `json:"completed,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// RoutineCatalog holds a goal's full schedule, keyed by routine type.
// Naps are nested under sleep rather than listed with the top-level
// sleep entries.
type RoutineCatalog struct {
	GoalID   string                              `json:"goal_id"`
	Routines map[RoutineType][]ScheduledInstance `json:"routines"`
	Naps     []ScheduledInstance                 `json:"naps,omitempty"`
}

// NewRoutineCatalog returns an empty catalog for the given goal.
func NewRoutineCatalog(goalID string) RoutineCatalog {
	return RoutineCatalog{
		GoalID:   goalID,
		Routines: make(map[RoutineType][]ScheduledInstance),
	}
}

// Len returns the total number of scheduled instances, naps included.
func (c RoutineCatalog) Len() int {
	n := len(c.Naps)
	for _, instances := range c.Routines {
		n += len(instances)
	}
	return n
}
