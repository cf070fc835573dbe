package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nwirth/stride/internal/calendar"
	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/utils"
)

var (
	calHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	calDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	calSkippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	calDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type CalCmd struct {
	Month string `arg:"" optional:"" help:"Month in YYYY-MM format (default: current month)."`
}

func (c *CalCmd) Run(ctx *Context) error {
	goal, err := ctx.ActiveGoal()
	if err != nil {
		return err
	}

	month := calendar.MonthOf(time.Now())
	if c.Month != "" {
		month, err = calendar.ParseMonth(c.Month)
		if err != nil {
			return fmt.Errorf("invalid month format: %s (expected YYYY-MM)", c.Month)
		}
	}

	days := calendar.DaysInView(goal, month)
	if len(days) == 0 {
		fmt.Printf("No days to show for %s (goal spans %s to %s).\n", month, goal.StartDate, goal.EndDate)
		return nil
	}

	progress, err := loadProgressByDay(ctx, goal.ID, days)
	if err != nil {
		return err
	}

	fmt.Println(calHeaderStyle.Render(fmt.Sprintf("%s — %s", month, goal.Name)))
	fmt.Println(RenderComplianceGrid(days, progress))

	hints := []string{}
	if calendar.CanNavigate(calendar.DirectionPrev, month, goal) {
		hints = append(hints, fmt.Sprintf("prev: stride cal %s", month.Prev()))
	}
	if calendar.CanNavigate(calendar.DirectionNext, month, goal) {
		hints = append(hints, fmt.Sprintf("next: stride cal %s", month.Next()))
	}
	if len(hints) > 0 {
		fmt.Println(calDimStyle.Render(strings.Join(hints, "  ")))
	}

	return nil
}

func loadProgressByDay(ctx *Context, goalID string, days []time.Time) (map[string]models.DailyProgress, error) {
	first := utils.FormatDay(days[0])
	last := utils.FormatDay(days[len(days)-1])

	records, err := ctx.Store.GetProgressRange(goalID, first, last)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]models.DailyProgress, len(records))
	for _, rec := range records {
		byDay[rec.Day] = rec
	}
	return byDay, nil
}

// RenderComplianceGrid renders one row per routine type with a glyph per
// day: done, skipped, or not yet logged.
func RenderComplianceGrid(days []time.Time, progress map[string]models.DailyProgress) string {
	var b strings.Builder

	b.WriteString("          ")
	for _, day := range days {
		b.WriteString(fmt.Sprintf("%2d ", day.Day()))
	}
	b.WriteString("\n")

	for _, rt := range models.RoutineTypes {
		b.WriteString(fmt.Sprintf("%-10s", rt))
		for _, day := range days {
			key := utils.FormatDay(day)
			var rec *models.DailyProgress
			if p, ok := progress[key]; ok {
				rec = &p
			}
			mark := calendar.ComplianceFor(key, rt, rec)
			b.WriteString(" " + styleMark(mark) + " ")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func styleMark(mark models.ComplianceMark) string {
	switch mark {
	case models.MarkDone:
		return calDoneStyle.Render("✓")
	case models.MarkSkipped:
		return calSkippedStyle.Render("✗")
	default:
		return calDimStyle.Render("·")
	}
}
