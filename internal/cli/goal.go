package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/utils"
	"github.com/nwirth/stride/internal/validation"
)

type GoalCmd struct {
	Add     GoalAddCmd     `cmd:"" help:"Add a new goal."`
	List    GoalListCmd    `cmd:"" help:"List goals."`
	Show    GoalShowCmd    `cmd:"" help:"Show the active goal."`
	Delete  GoalDeleteCmd  `cmd:"" help:"Delete a goal (soft delete)."`
	Restore GoalRestoreCmd `cmd:"" help:"Restore a deleted goal."`
}

type GoalAddCmd struct {
	Name  string `arg:"" help:"Goal name."`
	Start string `help:"Start date in YYYY-MM-DD format." required:""`
	End   string `help:"End date in YYYY-MM-DD format." required:""`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	goal := models.Goal{
		ID:        uuid.New().String(),
		Name:      c.Name,
		StartDate: c.Start,
		EndDate:   c.End,
		Active:    true,
		CreatedAt: time.Now(),
	}

	if result := validation.ValidateGoalInterval(goal); result.HasConflicts() {
		return fmt.Errorf("%s", result.FormatReport())
	}

	// Only one goal is active at a time; adding a goal deactivates the rest.
	existing, err := ctx.Store.GetAllGoals(false)
	if err != nil {
		return err
	}
	for _, g := range existing {
		if g.Active {
			g.Active = false
			if err := ctx.Store.UpdateGoal(g); err != nil {
				return err
			}
		}
	}

	if err := ctx.Store.AddGoal(goal); err != nil {
		return err
	}

	fmt.Printf("Added goal: %s (%s to %s)\n", goal.Name, goal.StartDate, goal.EndDate)
	return nil
}

type GoalListCmd struct {
	Deleted bool `help:"Include deleted goals."`
}

func (c *GoalListCmd) Run(ctx *Context) error {
	goals, err := ctx.Store.GetAllGoals(c.Deleted)
	if err != nil {
		return err
	}

	if len(goals) == 0 {
		fmt.Println("No goals found.")
		return nil
	}

	for _, goal := range goals {
		status := ""
		if goal.DeletedAt != nil {
			status = " [DELETED]"
		} else if goal.Active {
			status = " [ACTIVE]"
		}
		fmt.Printf("%s  %s..%s%s\n", goal.Name, goal.StartDate, goal.EndDate, status)
	}

	return nil
}

type GoalShowCmd struct{}

func (c *GoalShowCmd) Run(ctx *Context) error {
	goal, err := ctx.ActiveGoal()
	if err != nil {
		return err
	}

	catalog, err := ctx.Store.GetCatalog(goal.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", goal.Name)
	fmt.Printf("Interval: %s to %s\n", goal.StartDate, goal.EndDate)
	fmt.Printf("Scheduled routines: %d\n", catalog.Len())

	days, err := daysElapsed(goal)
	if err == nil {
		fmt.Printf("Days elapsed: %d\n", days)
	}

	return nil
}

func daysElapsed(goal models.Goal) (int, error) {
	start, err := utils.ParseDay(goal.StartDate, time.Local)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	if now.Before(start) {
		return 0, nil
	}
	return int(now.Sub(start).Hours()/24) + 1, nil
}

type GoalDeleteCmd struct {
	Name string `arg:"" help:"Goal name."`
}

func (c *GoalDeleteCmd) Run(ctx *Context) error {
	goal, err := findGoalByName(ctx, c.Name, false)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteGoal(goal.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted goal: %s\n", goal.Name)
	return nil
}

type GoalRestoreCmd struct {
	Name string `arg:"" help:"Goal name."`
}

func (c *GoalRestoreCmd) Run(ctx *Context) error {
	goal, err := findGoalByName(ctx, c.Name, true)
	if err != nil {
		return err
	}

	if err := ctx.Store.RestoreGoal(goal.ID); err != nil {
		return err
	}

	fmt.Printf("Restored goal: %s\n", goal.Name)
	return nil
}

func findGoalByName(ctx *Context, name string, deletedOnly bool) (models.Goal, error) {
	goals, err := ctx.Store.GetAllGoals(true)
	if err != nil {
		return models.Goal{}, err
	}
	for _, g := range goals {
		if g.Name != name {
			continue
		}
		if deletedOnly != (g.DeletedAt != nil) {
			continue
		}
		return g, nil
	}
	return models.Goal{}, fmt.Errorf("goal %q not found", name)
}
