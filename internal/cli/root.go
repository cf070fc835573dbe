package cli

import (
	"errors"
	"fmt"

	"github.com/nwirth/stride/internal/calendar"
	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/storage"
	"github.com/nwirth/stride/internal/timeline"
)

type Context struct {
	Store   storage.Provider
	Tracker *calendar.Tracker
}

// ActiveGoal loads the active goal, returning a friendly error when none
// has been configured yet.
func (c *Context) ActiveGoal() (models.Goal, error) {
	goal, err := c.Store.GetActiveGoal()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Goal{}, fmt.Errorf("no active goal, run 'stride goal add' first")
		}
		return models.Goal{}, err
	}
	return goal, nil
}

// MarkGlyph renders a compliance mark as a single calendar cell glyph.
func MarkGlyph(mark models.ComplianceMark) string {
	switch mark {
	case models.MarkDone:
		return "✓"
	case models.MarkSkipped:
		return "✗"
	default:
		return "·"
	}
}

// StatusLabel renders a timeline status for display.
func StatusLabel(status timeline.Status) string {
	switch status {
	case timeline.StatusCurrent:
		return "NOW"
	case timeline.StatusUpcoming:
		return "SOON"
	case timeline.StatusMissed:
		return "MISSED"
	default:
		return string(status)
	}
}
