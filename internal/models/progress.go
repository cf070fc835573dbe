package models

import "time"

// ComplianceMark is the per-day, per-routine-type status. The zero value
// means the day has not been logged for that type.
type ComplianceMark string

const (
	MarkUnknown ComplianceMark = ""
	MarkDone    ComplianceMark = "done"
	MarkSkipped ComplianceMark = "skipped"
)

// Next advances the mark through the toggle cycle. Once a day has been
// logged the cycle alternates between done and skipped; it never returns
// to unknown.
func (m ComplianceMark) Next() ComplianceMark {
	switch m {
	case MarkDone:
		return MarkSkipped
	default:
		return MarkDone
	}
}

// Valid reports whether m is one of the three compliance values.
func (m ComplianceMark) Valid() bool {
	switch m {
	case MarkUnknown, MarkDone, MarkSkipped:
		return true
	}
	return false
}

// DailyProgress is one calendar day's compliance record for a goal.
// Satisfaction and Notes ride along with the routine log and must survive
// mark toggles untouched.
type DailyProgress struct {
	GoalID       string                         `json:"goal_id"`
	Day          string                         `json:"day"` // YYYY-MM-DD format
	RoutineLog   map[RoutineType]ComplianceMark `json:"routine_log"`
	Satisfaction int                            `json:"satisfaction,omitempty"`
	Notes        string                         `json:"notes,omitempty"`
	CreatedAt    time.Time                      `json:"created_at"`
	UpdatedAt    time.Time                      `json:"updated_at"`
}

// NewDailyProgress returns an empty record for the given goal and day.
func NewDailyProgress(goalID, day string) DailyProgress {
	return DailyProgress{
		GoalID:     goalID,
		Day:        day,
		RoutineLog: make(map[RoutineType]ComplianceMark),
	}
}

// Mark returns the logged mark for the given type, MarkUnknown if absent.
func (p DailyProgress) Mark(t RoutineType) ComplianceMark {
	if p.RoutineLog == nil {
		return MarkUnknown
	}
	return p.RoutineLog[t]
}
