package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nwirth/stride/internal/tui"
)

type WatchCmd struct{}

func (c *WatchCmd) Run(ctx *Context) error {
	goal, err := ctx.ActiveGoal()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(ctx.Store, goal), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run watch view: %w", err)
	}
	return nil
}
