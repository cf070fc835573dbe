package utils

import (
	"fmt"
	"time"

	"github.com/nwirth/stride/internal/constants"
)

// ParseClock parses a time-of-day string (HH:MM) into minutes from midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock formats minutes from midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidClock reports whether the string parses as a 24-hour time of day.
func ValidClock(clock string) bool {
	_, err := ParseClock(clock)
	return err == nil
}

// MinutesOfDay returns t's position within its day in whole minutes.
// Seconds are truncated so a window boundary holds for the full minute.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// OnDay places a clock value (minutes from midnight) on day's date.
func OnDay(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

// Within reports whether now falls inside the half-open window [start, end),
// all in minutes from midnight. A now equal to end is outside.
func Within(now, start, end int) bool {
	return start <= now && now < end
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// EndOfDay returns the last nanosecond of t's calendar date.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ParseDay parses a date string (YYYY-MM-DD) at midnight in the given location.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// FormatDay formats a time as a date string (YYYY-MM-DD).
func FormatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ValidDay reports whether the string parses as a date (YYYY-MM-DD).
func ValidDay(day string) bool {
	_, err := time.Parse(constants.DateFormat, day)
	return err == nil
}
