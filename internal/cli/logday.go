package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/storage"
	"github.com/nwirth/stride/internal/utils"
)

type LogCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

// Run opens a short reflection form for the day's record. Compliance marks
// already logged for the day are preserved untouched; only satisfaction
// and notes change here.
func (c *LogCmd) Run(ctx *Context) error {
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

	parsed, err := utils.ParseDay(day, time.Local)
	if err != nil {
		return err
	}
	if utils.EndOfDay(parsed).After(utils.EndOfDay(time.Now())) {
		return fmt.Errorf("%s is in the future", day)
	}

	progress, err := ctx.Store.GetProgress(goal.ID, day)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		progress = models.NewDailyProgress(goal.ID, day)
		progress.CreatedAt = time.Now()
	}

	satisfaction := progress.Satisfaction
	notes := progress.Notes

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(fmt.Sprintf("How satisfied were you with %s?", day)).
				Options(
					huh.NewOption("Very satisfied", 5),
					huh.NewOption("Satisfied", 4),
					huh.NewOption("Neutral", 3),
					huh.NewOption("Unsatisfied", 2),
					huh.NewOption("Very unsatisfied", 1),
				).
				Value(&satisfaction),
			huh.NewText().
				Title("Notes").
				Placeholder("Anything worth remembering about this day?").
				Value(&notes),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	progress.Satisfaction = satisfaction
	progress.Notes = notes
	progress.UpdatedAt = time.Now()

	if err := ctx.Store.SaveProgress(progress); err != nil {
		return err
	}

	fmt.Printf("Logged %s.\n", day)
	return nil
}
