package models

import "time"

// Goal bounds the interval in which scheduling and calendar views are valid.
type Goal struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate string     `json:"start_date"` // YYYY-MM-DD format
	EndDate   string     `json:"end_date"`   // YYYY-MM-DD format
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// HasInterval reports whether the goal carries a usable date interval.
func (g Goal) HasInterval() bool {
	return g.StartDate != "" && g.EndDate != ""
}
