package constants

const (
	AppName            = "stride"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/stride/stride.db"
	Version            = "v0.3.1"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MonthFormat is the standard month format for calendar navigation (YYYY-MM)
	MonthFormat = "2006-01"

	// UpcomingWindowMin is how far ahead of its start an activity is surfaced
	// on the timeline, in minutes.
	UpcomingWindowMin = 60

	// RefreshInterval is how often the watch view re-derives the timeline,
	// in seconds.
	RefreshIntervalSec = 60
)
