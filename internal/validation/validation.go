package validation

import (
	"fmt"
	"time"

	"github.com/nwirth/stride/internal/constants"
	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidTime       ConflictType = "invalid_time"
	ConflictInvalidDuration   ConflictType = "invalid_duration"
	ConflictInvalidType       ConflictType = "invalid_type"
	ConflictMissingInterval   ConflictType = "missing_interval"
	ConflictInvertedInterval  ConflictType = "inverted_interval"
	ConflictMalformedInterval ConflictType = "malformed_interval"
)

// Conflict represents a detected problem in a catalog or goal
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // labels/IDs involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// ValidateCatalog checks every scheduled instance for a parseable
// time-of-day and a positive duration.
func ValidateCatalog(catalog models.RoutineCatalog) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	check := func(inst models.ScheduledInstance) {
		name := inst.Label
		if name == "" {
			name = inst.ID
		}
		if !inst.Type.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidType,
				Description: fmt.Sprintf("%q has unknown routine type %q", name, inst.Type),
				Items:       []string{inst.ID},
			})
		}
		if !utils.ValidClock(inst.Time) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTime,
				Description: fmt.Sprintf("%q has invalid time %q (expected HH:MM)", name, inst.Time),
				Items:       []string{inst.ID},
			})
		}
		if inst.DurationMin <= 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDuration,
				Description: fmt.Sprintf("%q has non-positive duration %d", name, inst.DurationMin),
				Items:       []string{inst.ID},
			})
		}
	}

	for _, rt := range models.RoutineTypes {
		for _, inst := range catalog.Routines[rt] {
			check(inst)
		}
	}
	for _, inst := range catalog.Naps {
		check(inst)
	}

	return result
}

// ValidateGoalInterval checks that the goal carries a well-formed,
// non-inverted date interval.
func ValidateGoalInterval(goal models.Goal) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if !goal.HasInterval() {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictMissingInterval,
			Description: fmt.Sprintf("goal %q has no start/end dates", goal.Name),
			Items:       []string{goal.ID},
		})
		return result
	}

	start, startErr := time.Parse(constants.DateFormat, goal.StartDate)
	end, endErr := time.Parse(constants.DateFormat, goal.EndDate)
	if startErr != nil || endErr != nil {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictMalformedInterval,
			Description: fmt.Sprintf("goal %q has malformed dates %q..%q (expected YYYY-MM-DD)", goal.Name, goal.StartDate, goal.EndDate),
			Items:       []string{goal.ID},
		})
		return result
	}

	if end.Before(start) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvertedInterval,
			Description: fmt.Sprintf("goal %q ends (%s) before it starts (%s)", goal.Name, goal.EndDate, goal.StartDate),
			Items:       []string{goal.ID},
		})
	}

	return result
}
