package timeline

import (
	"testing"
	"time"

	"github.com/nwirth/stride/internal/models"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 1, 15, hour, min, 0, 0, time.UTC)
}

func catalogWith(instances ...models.ScheduledInstance) models.RoutineCatalog {
	catalog := models.NewRoutineCatalog("goal-1")
	for _, inst := range instances {
		if inst.Nap {
			catalog.Naps = append(catalog.Naps, inst)
			continue
		}
		catalog.Routines[inst.Type] = append(catalog.Routines[inst.Type], inst)
	}
	return catalog
}

func TestClassifyWindowBoundaries(t *testing.T) {
	// One meal at 14:00 for 60 minutes, classified at different instants.
	meal := models.ScheduledInstance{
		ID: "m1", Type: models.RoutineMeal, Time: "14:00", DurationMin: 60, Label: "Lunch",
	}

	tests := []struct {
		name       string
		now        time.Time
		wantStatus Status
		wantUntil  int
		excluded   bool
	}{
		{
			name:       "inside window is current",
			now:        at(14, 30),
			wantStatus: StatusCurrent,
		},
		{
			name:       "at window start is current",
			now:        at(14, 0),
			wantStatus: StatusCurrent,
		},
		{
			name:       "at window end is missed",
			now:        at(15, 0),
			wantStatus: StatusMissed,
		},
		{
			name:       "well past window is missed",
			now:        at(18, 0),
			wantStatus: StatusMissed,
		},
		{
			name:       "45 minutes ahead is upcoming",
			now:        at(13, 15),
			wantStatus: StatusUpcoming,
			wantUntil:  45,
		},
		{
			name:       "exactly 60 minutes ahead is upcoming",
			now:        at(13, 0),
			wantStatus: StatusUpcoming,
			wantUntil:  60,
		},
		{
			name:     "two hours ahead is excluded",
			now:      at(12, 0),
			excluded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Classify(catalogWith(meal), tt.now)
			if tt.excluded {
				if len(entries) != 0 {
					t.Fatalf("Classify() = %v, want empty", entries)
				}
				return
			}
			if len(entries) != 1 {
				t.Fatalf("Classify() returned %d entries, want 1", len(entries))
			}
			if entries[0].Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", entries[0].Status, tt.wantStatus)
			}
			if entries[0].MinutesUntil != tt.wantUntil {
				t.Errorf("minutes until = %d, want %d", entries[0].MinutesUntil, tt.wantUntil)
			}
		})
	}
}

func TestClassifyDropsResolvedInstances(t *testing.T) {
	doneAt := at(8, 0)
	yesterday := at(8, 0).AddDate(0, 0, -1)

	tests := []struct {
		name string
		inst models.ScheduledInstance
		want int
	}{
		{
			name: "done today is dropped",
			inst: models.ScheduledInstance{
				Type: models.RoutineBath, Time: "08:00", DurationMin: 30,
				Completed: models.MarkDone, CompletedAt: &doneAt,
			},
			want: 0,
		},
		{
			name: "skipped today is dropped",
			inst: models.ScheduledInstance{
				Type: models.RoutineBath, Time: "08:00", DurationMin: 30,
				Completed: models.MarkSkipped, CompletedAt: &doneAt,
			},
			want: 0,
		},
		{
			name: "done yesterday still classifies",
			inst: models.ScheduledInstance{
				Type: models.RoutineBath, Time: "08:00", DurationMin: 30,
				Completed: models.MarkDone, CompletedAt: &yesterday,
			},
			want: 1,
		},
		{
			name: "unresolved classifies",
			inst: models.ScheduledInstance{
				Type: models.RoutineBath, Time: "08:00", DurationMin: 30,
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Classify(catalogWith(tt.inst), at(8, 15))
			if len(entries) != tt.want {
				t.Errorf("Classify() returned %d entries, want %d", len(entries), tt.want)
			}
		})
	}
}

func TestClassifyOrdering(t *testing.T) {
	now := at(14, 0)
	catalog := catalogWith(
		// Missed this morning.
		models.ScheduledInstance{Type: models.RoutineTeeth, Time: "07:00", DurationMin: 10, Label: "brush"},
		// Upcoming in 50 minutes.
		models.ScheduledInstance{Type: models.RoutineWater, Time: "14:50", DurationMin: 5, Label: "water-later"},
		// Current.
		models.ScheduledInstance{Type: models.RoutineMeal, Time: "13:30", DurationMin: 60, Label: "lunch"},
		// Upcoming in 15 minutes; must sort before the 50-minute one.
		models.ScheduledInstance{Type: models.RoutineExercise, Time: "14:15", DurationMin: 30, Label: "stretch"},
	)

	entries := Classify(catalog, now)
	if len(entries) != 4 {
		t.Fatalf("Classify() returned %d entries, want 4", len(entries))
	}

	wantOrder := []string{"lunch", "stretch", "water-later", "brush"}
	for i, label := range wantOrder {
		if entries[i].Label != label {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Label, label)
		}
	}

	// Upcoming entries are non-decreasing in minutes-until-start.
	lastUntil := -1
	for _, entry := range entries {
		if entry.Status != StatusUpcoming {
			continue
		}
		if entry.MinutesUntil < lastUntil {
			t.Errorf("upcoming entries out of order: %d after %d", entry.MinutesUntil, lastUntil)
		}
		lastUntil = entry.MinutesUntil
	}
}

func TestClassifyStableTieBreak(t *testing.T) {
	// Two missed meals keep catalog order regardless of their times.
	catalog := catalogWith(
		models.ScheduledInstance{Type: models.RoutineMeal, Time: "09:00", DurationMin: 30, Label: "breakfast"},
		models.ScheduledInstance{Type: models.RoutineMeal, Time: "07:00", DurationMin: 30, Label: "early-snack"},
	)

	entries := Classify(catalog, at(20, 0))
	if len(entries) != 2 {
		t.Fatalf("Classify() returned %d entries, want 2", len(entries))
	}
	if entries[0].Label != "breakfast" || entries[1].Label != "early-snack" {
		t.Errorf("missed entries reordered: %q, %q", entries[0].Label, entries[1].Label)
	}
}

func TestClassifyIncludesNaps(t *testing.T) {
	catalog := catalogWith(
		models.ScheduledInstance{Type: models.RoutineSleep, Time: "13:00", DurationMin: 45, Label: "nap", Nap: true},
	)

	entries := Classify(catalog, at(13, 10))
	if len(entries) != 1 {
		t.Fatalf("Classify() returned %d entries, want 1", len(entries))
	}
	if entries[0].Status != StatusCurrent {
		t.Errorf("nap status = %s, want %s", entries[0].Status, StatusCurrent)
	}
	if entries[0].Type != models.RoutineSleep {
		t.Errorf("nap type = %s, want %s", entries[0].Type, models.RoutineSleep)
	}
}

func TestClassifySkipsMalformedInstances(t *testing.T) {
	catalog := catalogWith(
		models.ScheduledInstance{Type: models.RoutineMeal, Time: "not-a-time", DurationMin: 30, Label: "bad-time"},
		models.ScheduledInstance{Type: models.RoutineMeal, Time: "12:00", DurationMin: 0, Label: "bad-duration"},
		models.ScheduledInstance{Type: models.RoutineMeal, Time: "12:00", DurationMin: 30, Label: "good"},
	)

	entries := Classify(catalog, at(12, 10))
	if len(entries) != 1 {
		t.Fatalf("Classify() returned %d entries, want 1", len(entries))
	}
	if entries[0].Label != "good" {
		t.Errorf("surviving entry = %q, want %q", entries[0].Label, "good")
	}
}

func TestClassifyEmptyCatalog(t *testing.T) {
	entries := Classify(models.NewRoutineCatalog("goal-1"), at(12, 0))
	if len(entries) != 0 {
		t.Errorf("Classify() on empty catalog = %v, want empty", entries)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	catalog := catalogWith(
		models.ScheduledInstance{Type: models.RoutineMeal, Time: "13:30", DurationMin: 60, Label: "lunch"},
		models.ScheduledInstance{Type: models.RoutineWater, Time: "14:30", DurationMin: 5, Label: "water"},
		models.ScheduledInstance{Type: models.RoutineTeeth, Time: "07:00", DurationMin: 10, Label: "brush"},
	)
	now := at(14, 0)

	first := Classify(catalog, now)
	for i := 0; i < 10; i++ {
		again := Classify(catalog, now)
		if len(again) != len(first) {
			t.Fatalf("run %d returned %d entries, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Errorf("run %d entry %d = %+v, want %+v", i, j, again[j], first[j])
			}
		}
	}
}
