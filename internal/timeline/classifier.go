package timeline

import (
	"sort"
	"time"

	"github.com/nwirth/stride/internal/constants"
	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/utils"
)

// Status classifies a scheduled activity relative to wall-clock time.
type Status string

const (
	StatusCurrent  Status = "current"
	StatusUpcoming Status = "upcoming"
	StatusMissed   Status = "missed"
)

// Entry is one classified activity on the timeline.
type Entry struct {
	Type        models.RoutineType `json:"type"`
	Label       string             `json:"label"`
	Icon        string             `json:"icon,omitempty"`
	Time        string             `json:"time"` // HH:MM format
	DurationMin int                `json:"duration_min"`
	Status      Status             `json:"status"`
	// MinutesUntil is minutes until the window opens. Only meaningful for
	// upcoming entries; zero otherwise.
	MinutesUntil int `json:"minutes_until,omitempty"`
}

// Classify derives the timeline view for the catalog at the given instant.
// It is a pure function of its inputs: no I/O, no hidden state. Callers
// re-invoke it on a fixed interval to track elapsing time.
//
// Entries already resolved for now's date are dropped. The rest classify
// first-match-wins: current while now is inside the half-open activity
// window, missed once now reaches the window end, upcoming within the
// lead window before the start, otherwise excluded as not yet relevant.
func Classify(catalog models.RoutineCatalog, now time.Time) []Entry {
	nowMin := utils.MinutesOfDay(now)

	var entries []Entry
	for _, inst := range flatten(catalog) {
		if resolvedOn(inst, now) {
			continue
		}

		start, err := utils.ParseClock(inst.Time)
		if err != nil || inst.DurationMin <= 0 {
			// Malformed catalog entries are a precondition violation;
			// stride doctor reports them via validation.
			continue
		}
		end := start + inst.DurationMin

		entry := Entry{
			Type:        inst.Type,
			Label:       inst.Label,
			Icon:        inst.Icon,
			Time:        inst.Time,
			DurationMin: inst.DurationMin,
		}

		switch {
		case utils.Within(nowMin, start, end):
			entry.Status = StatusCurrent
		case nowMin >= end:
			entry.Status = StatusMissed
		case start-nowMin > 0 && start-nowMin <= constants.UpcomingWindowMin:
			entry.Status = StatusUpcoming
			entry.MinutesUntil = start - nowMin
		default:
			continue
		}
		entries = append(entries, entry)
	}

	// Stable: equal ranks keep catalog flattening order.
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := rank(entries[i].Status), rank(entries[j].Status)
		if ri != rj {
			return ri < rj
		}
		if entries[i].Status == StatusUpcoming {
			return entries[i].MinutesUntil < entries[j].MinutesUntil
		}
		return false
	})

	return entries
}

func rank(s Status) int {
	switch s {
	case StatusCurrent:
		return 0
	case StatusUpcoming:
		return 1
	default:
		return 2
	}
}

// flatten lists every scheduled instance in canonical type order, with
// naps following the top-level sleep entries.
func flatten(catalog models.RoutineCatalog) []models.ScheduledInstance {
	flat := make([]models.ScheduledInstance, 0, catalog.Len())
	for _, rt := range models.RoutineTypes {
		flat = append(flat, catalog.Routines[rt]...)
		if rt == models.RoutineSleep {
			flat = append(flat, catalog.Naps...)
		}
	}
	return flat
}

// resolvedOn reports whether the instance was already marked done or
// skipped on now's date. A deliberate skip does not resurface as missed.
func resolvedOn(inst models.ScheduledInstance, now time.Time) bool {
	if inst.Completed == models.MarkUnknown {
		return false
	}
	return inst.CompletedAt != nil && utils.SameDay(*inst.CompletedAt, now)
}
