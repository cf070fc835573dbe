package utils

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		clock   string
		want    int
		wantErr bool
	}{
		{
			name:  "midnight",
			clock: "00:00",
			want:  0,
		},
		{
			name:  "morning",
			clock: "08:30",
			want:  510,
		},
		{
			name:  "last minute of day",
			clock: "23:59",
			want:  1439,
		},
		{
			name:    "hour out of range",
			clock:   "24:00",
			wantErr: true,
		},
		{
			name:    "missing minutes",
			clock:   "14",
			wantErr: true,
		},
		{
			name:    "not a time",
			clock:   "bedtime",
			wantErr: true,
		},
		{
			name:    "empty string",
			clock:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.clock)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.clock, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.clock, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{510, "08:30"},
		{1439, "23:59"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.minutes); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		name             string
		now, start, end  int
		want             bool
	}{
		{name: "inside window", now: 870, start: 840, end: 900, want: true},
		{name: "at window start", now: 840, start: 840, end: 900, want: true},
		{name: "at window end is outside", now: 900, start: 840, end: 900, want: false},
		{name: "before window", now: 800, start: 840, end: 900, want: false},
		{name: "after window", now: 950, start: 840, end: 900, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Within(tt.now, tt.start, tt.end); got != tt.want {
				t.Errorf("Within(%d, %d, %d) = %v, want %v", tt.now, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestMinutesOfDayTruncatesSeconds(t *testing.T) {
	instant := time.Date(2025, 1, 15, 14, 30, 59, 0, time.UTC)
	if got := MinutesOfDay(instant); got != 14*60+30 {
		t.Errorf("MinutesOfDay() = %d, want %d", got, 14*60+30)
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)
	night := time.Date(2025, 1, 15, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)

	if !SameDay(morning, night) {
		t.Error("SameDay() = false for two instants on the same date")
	}
	if SameDay(night, nextDay) {
		t.Error("SameDay() = true across midnight")
	}
}

func TestEndOfDay(t *testing.T) {
	instant := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	end := EndOfDay(instant)

	if !SameDay(instant, end) {
		t.Error("EndOfDay() left the original date")
	}
	if !end.After(instant) {
		t.Error("EndOfDay() is not after an afternoon instant")
	}
	if end.Hour() != 23 || end.Minute() != 59 {
		t.Errorf("EndOfDay() = %v, want 23:59", end)
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		day     string
		wantErr bool
	}{
		{name: "valid date", day: "2025-01-15"},
		{name: "invalid month", day: "2025-13-01", wantErr: true},
		{name: "wrong format", day: "15/01/2025", wantErr: true},
		{name: "empty", day: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.day, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDay(%q) error = %v, wantErr %v", tt.day, err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if got.Hour() != 0 || got.Minute() != 0 {
					t.Errorf("ParseDay(%q) = %v, want midnight", tt.day, got)
				}
				if FormatDay(got) != tt.day {
					t.Errorf("FormatDay(ParseDay(%q)) = %q", tt.day, FormatDay(got))
				}
			}
		})
	}
}
