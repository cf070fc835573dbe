package calendar

import (
	"time"

	"github.com/nwirth/stride/internal/constants"
	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/utils"
)

// Month identifies a calendar month without a day component.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a month string (YYYY-MM).
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(constants.MonthFormat, s)
	if err != nil {
		return Month{}, err
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format(constants.MonthFormat)
}

// Compare orders months chronologically: -1 if m precedes other, 0 if
// equal, 1 if m follows other.
func (m Month) Compare(other Month) int {
	a := m.Year*12 + int(m.Month)
	b := other.Year*12 + int(other.Month)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return MonthOf(t)
}

// Next returns the following month.
func (m Month) Next() Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return MonthOf(t)
}

// Direction is a calendar navigation request.
type Direction string

const (
	DirectionPrev Direction = "prev"
	DirectionNext Direction = "next"
)

// DaysInView enumerates every date inside both the requested month and the
// goal's interval, in ascending order. An absent or empty goal interval
// yields no days.
func DaysInView(goal models.Goal, month Month) []time.Time {
	if !goal.HasInterval() {
		return nil
	}
	start, err := utils.ParseDay(goal.StartDate, time.Local)
	if err != nil {
		return nil
	}
	end, err := utils.ParseDay(goal.EndDate, time.Local)
	if err != nil || end.Before(start) {
		return nil
	}

	first := time.Date(month.Year, month.Month, 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)

	if first.Before(start) {
		first = start
	}
	if last.After(end) {
		last = end
	}

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if MonthOf(d) == month {
			days = append(days, d)
		}
	}
	return days
}

// CanNavigate reports whether the calendar may move one month in the given
// direction: backward only while the current month is after the goal's
// start month, forward only while it is before the goal's end month. A
// disallowed request is a no-op for callers, not an error.
func CanNavigate(dir Direction, current Month, goal models.Goal) bool {
	if !goal.HasInterval() {
		return false
	}
	start, err := utils.ParseDay(goal.StartDate, time.Local)
	if err != nil {
		return false
	}
	end, err := utils.ParseDay(goal.EndDate, time.Local)
	if err != nil || end.Before(start) {
		return false
	}

	switch dir {
	case DirectionPrev:
		return current.Compare(MonthOf(start)) > 0
	case DirectionNext:
		return current.Compare(MonthOf(end)) < 0
	}
	return false
}

// ComplianceFor returns the logged mark for a date and routine type,
// MarkUnknown when no record exists for that date.
func ComplianceFor(day string, t models.RoutineType, progress *models.DailyProgress) models.ComplianceMark {
	if progress == nil || progress.Day != day {
		return models.MarkUnknown
	}
	return progress.Mark(t)
}
