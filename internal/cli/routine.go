package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/utils"
)

type RoutineCmd struct {
	Add    RoutineAddCmd    `cmd:"" help:"Add a scheduled routine to the active goal."`
	List   RoutineListCmd   `cmd:"" help:"List the active goal's routine schedule."`
	Remove RoutineRemoveCmd `cmd:"" help:"Remove a scheduled routine."`
	Done   RoutineDoneCmd   `cmd:"" help:"Mark a scheduled routine resolved for today."`
}

type RoutineAddCmd struct {
	Type     string `arg:"" help:"Routine type (sleep, bath, exercise, meal, teeth, water)."`
	Time     string `arg:"" help:"Start time in HH:MM format."`
	Duration int    `help:"Duration in minutes." default:"30"`
	Label    string `help:"Display label." default:""`
	Icon     string `help:"Icon reference." default:""`
	Nap      bool   `help:"Nest this sleep entry as a nap."`
}

func (c *RoutineAddCmd) Run(ctx *Context) error {
	goal, err := ctx.ActiveGoal()
	if err != nil {
		return err
	}

	rt := models.RoutineType(c.Type)
	if !rt.Valid() {
		return fmt.Errorf("unknown routine type %q", c.Type)
	}
	if c.Nap && rt != models.RoutineSleep {
		return fmt.Errorf("only sleep entries can be naps")
	}
	if !utils.ValidClock(c.Time) {
		return fmt.Errorf("invalid time %q (expected HH:MM)", c.Time)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", c.Duration)
	}

	label := c.Label
	if label == "" {
		label = string(rt)
	}

	inst := models.ScheduledInstance{
		ID:          uuid.New().String(),
		Type:        rt,
		Time:        c.Time,
		DurationMin: c.Duration,
		Label:       label,
		Icon:        c.Icon,
		Nap:         c.Nap,
	}

	if err := ctx.Store.AddInstance(goal.ID, inst); err != nil {
		return err
	}

	fmt.Printf("Added %s at %s (%d min)\n", label, c.Time, c.Duration)
	return nil
}

type RoutineListCmd struct{}

func (c *RoutineListCmd) Run(ctx *Context) error {
	goal, err := ctx.ActiveGoal()
	if err != nil {
		return err
	}

	catalog, err := ctx.Store.GetCatalog(goal.ID)
	if err != nil {
		return err
	}

	if catalog.Len() == 0 {
		fmt.Println("No routines scheduled.")
		return nil
	}

	for _, rt := range models.RoutineTypes {
		for _, inst := range catalog.Routines[rt] {
			printInstance(inst, false)
		}
		if rt == models.RoutineSleep {
			for _, nap := range catalog.Naps {
				printInstance(nap, true)
			}
		}
	}

	return nil
}

func printInstance(inst models.ScheduledInstance, nap bool) {
	indent := ""
	if nap {
		indent = "  "
	}
	status := ""
	if inst.Completed != models.MarkUnknown && inst.CompletedAt != nil &&
		utils.SameDay(*inst.CompletedAt, time.Now()) {
		status = fmt.Sprintf(" [%s today]", inst.Completed)
	}
	fmt.Printf("%s%s  %-10s %s (%d min)%s\n", indent, inst.Time, inst.Type, inst.Label, inst.DurationMin, status)
}

type RoutineRemoveCmd struct {
	Label string `arg:"" help:"Label of the routine to remove."`
}

func (c *RoutineRemoveCmd) Run(ctx *Context) error {
	goal, err := ctx.ActiveGoal()
	if err != nil {
		return err
	}

	inst, err := findInstanceByLabel(ctx, goal.ID, c.Label)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteInstance(goal.ID, inst.ID); err != nil {
		return err
	}

	fmt.Printf("Removed %s\n", inst.Label)
	return nil
}

type RoutineDoneCmd struct {
	Label string `arg:"" help:"Label of the routine to resolve."`
	Skip  bool   `help:"Record a deliberate skip instead of done."`
}

func (c *RoutineDoneCmd) Run(ctx *Context) error {
	goal, err := ctx.ActiveGoal()
	if err != nil {
		return err
	}

	inst, err := findInstanceByLabel(ctx, goal.ID, c.Label)
	if err != nil {
		return err
	}

	mark := models.MarkDone
	if c.Skip {
		mark = models.MarkSkipped
	}

	if err := ctx.Store.MarkInstance(goal.ID, inst.ID, mark, time.Now()); err != nil {
		return err
	}

	fmt.Printf("Marked %s %s for today\n", inst.Label, mark)
	return nil
}

func findInstanceByLabel(ctx *Context, goalID, label string) (models.ScheduledInstance, error) {
	catalog, err := ctx.Store.GetCatalog(goalID)
	if err != nil {
		return models.ScheduledInstance{}, err
	}

	var matches []models.ScheduledInstance
	for _, instances := range catalog.Routines {
		for _, inst := range instances {
			if inst.Label == label {
				matches = append(matches, inst)
			}
		}
	}
	for _, nap := range catalog.Naps {
		if nap.Label == label {
			matches = append(matches, nap)
		}
	}

	switch len(matches) {
	case 0:
		return models.ScheduledInstance{}, fmt.Errorf("routine %q not found", label)
	case 1:
		return matches[0], nil
	default:
		return models.ScheduledInstance{}, fmt.Errorf("routine %q is ambiguous (%d matches)", label, len(matches))
	}
}
