package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/nwirth/stride/internal/calendar"
	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/utils"
)

type MarkCmd struct {
	Type string `arg:"" help:"Routine type (sleep, bath, exercise, meal, teeth, water)."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *MarkCmd) Run(ctx *Context) error {
	goal, err := ctx.ActiveGoal()
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = utils.FormatDay(time.Now())
	} else if !utils.ValidDay(day) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}

	progress, err := ctx.Tracker.Toggle(goal.ID, day, models.RoutineType(c.Type))
	if err != nil {
		if errors.Is(err, calendar.ErrFutureDate) {
			return fmt.Errorf("%s is in the future, the mark was not changed", day)
		}
		return err
	}

	fmt.Printf("%s on %s: %s\n", c.Type, day, progress.Mark(models.RoutineType(c.Type)))
	return nil
}
