package cli

import (
	"fmt"
	"time"

	"github.com/nwirth/stride/internal/timeline"
)

type NowCmd struct{}

func (c *NowCmd) Run(ctx *Context) error {
	goal, err := ctx.ActiveGoal()
	if err != nil {
		return err
	}

	catalog, err := ctx.Store.GetCatalog(goal.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	entries := timeline.Classify(catalog, now)

	fmt.Printf("Now (%02d:%02d):\n", now.Hour(), now.Minute())
	if len(entries) == 0 {
		fmt.Println("Nothing on the timeline right now.")
		return nil
	}

	for _, entry := range entries {
		switch entry.Status {
		case timeline.StatusUpcoming:
			fmt.Printf("%-6s %s  %s (%d min, in %d min)\n",
				StatusLabel(entry.Status), entry.Time, entry.Label, entry.DurationMin, entry.MinutesUntil)
		default:
			fmt.Printf("%-6s %s  %s (%d min)\n",
				StatusLabel(entry.Status), entry.Time, entry.Label, entry.DurationMin)
		}
	}

	return nil
}
