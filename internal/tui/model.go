package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/nwirth/stride/internal/calendar"
	"github.com/nwirth/stride/internal/constants"
	"github.com/nwirth/stride/internal/logger"
	"github.com/nwirth/stride/internal/models"
	"github.com/nwirth/stride/internal/storage"
	"github.com/nwirth/stride/internal/timeline"
	"github.com/nwirth/stride/internal/utils"
)

type view int

const (
	viewTimeline view = iota
	viewCalendar
)

// TickMsg carries the wall-clock instant the timeline was re-derived at.
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(constants.RefreshIntervalSec*time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Model is the watch view: a classified timeline re-derived on a fixed
// interval, plus a month-bounded compliance calendar.
type Model struct {
	store storage.Provider
	goal  models.Goal

	catalog models.RoutineCatalog
	entries []timeline.Entry
	now     time.Time

	month    calendar.Month
	days     []time.Time
	progress map[string]models.DailyProgress

	view     view
	help     help.Model
	width    int
	height   int
	quitting bool
}

// New builds the watch model for the given goal.
func New(store storage.Provider, goal models.Goal) Model {
	m := Model{
		store: store,
		goal:  goal,
		now:   time.Now(),
		month: calendar.MonthOf(time.Now()),
		help:  help.New(),
	}
	m.reload()
	m.loadMonth()
	return m
}

func (m *Model) reload() {
	catalog, err := m.store.GetCatalog(m.goal.ID)
	if err != nil {
		logger.Warn("Failed to load catalog", "error", err)
		catalog = models.NewRoutineCatalog(m.goal.ID)
	}
	m.catalog = catalog
	m.entries = timeline.Classify(m.catalog, m.now)
}

func (m *Model) loadMonth() {
	m.days = calendar.DaysInView(m.goal, m.month)
	m.progress = make(map[string]models.DailyProgress)
	if len(m.days) == 0 {
		return
	}

	first := utils.FormatDay(m.days[0])
	last := utils.FormatDay(m.days[len(m.days)-1])
	records, err := m.store.GetProgressRange(m.goal.ID, first, last)
	if err != nil {
		logger.Warn("Failed to load progress", "month", m.month, "error", err)
		return
	}
	for _, rec := range records {
		m.progress[rec.Day] = rec
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.now = time.Time(msg)
		m.reload()
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Tab):
			if m.view == viewTimeline {
				m.view = viewCalendar
			} else {
				m.view = viewTimeline
			}
			return m, nil
		case key.Matches(msg, keys.Refresh):
			m.now = time.Now()
			m.reload()
			m.loadMonth()
			return m, nil
		case key.Matches(msg, keys.Prev):
			// A disallowed navigation is a no-op.
			if m.view == viewCalendar && calendar.CanNavigate(calendar.DirectionPrev, m.month, m.goal) {
				m.month = m.month.Prev()
				m.loadMonth()
			}
			return m, nil
		case key.Matches(msg, keys.Next):
			if m.view == viewCalendar && calendar.CanNavigate(calendar.DirectionNext, m.month, m.goal) {
				m.month = m.month.Next()
				m.loadMonth()
			}
			return m, nil
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.view {
	case viewCalendar:
		body = m.calendarView()
	default:
		body = m.timelineView()
	}

	header := titleStyle.Render(m.goal.Name) +
		clockStyle.Render(m.now.Format("Mon 15:04"))

	return header + "\n" + panelStyle.Render(body) + "\n" + m.help.View(keys)
}

func (m Model) timelineView() string {
	if len(m.entries) == 0 {
		return dimStyle.Render("Nothing on the timeline right now.")
	}

	var b strings.Builder
	for i, entry := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		line := fmt.Sprintf("%s  %s (%d min)", entry.Time, entry.Label, entry.DurationMin)
		switch entry.Status {
		case timeline.StatusCurrent:
			b.WriteString(currentStyle.Render("NOW    " + line))
		case timeline.StatusUpcoming:
			b.WriteString(upcomingStyle.Render(fmt.Sprintf("SOON   %s — in %d min", line, entry.MinutesUntil)))
		case timeline.StatusMissed:
			b.WriteString(missedStyle.Render("MISSED " + line))
		}
	}
	return b.String()
}

func (m Model) calendarView() string {
	if len(m.days) == 0 {
		return dimStyle.Render(fmt.Sprintf("No days in %s for this goal.", m.month))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.month.String()))
	b.WriteString("\n\n          ")
	for _, day := range m.days {
		b.WriteString(fmt.Sprintf("%2d ", day.Day()))
	}
	b.WriteString("\n")

	for _, rt := range models.RoutineTypes {
		b.WriteString(fmt.Sprintf("%-10s", rt))
		for _, day := range m.days {
			key := utils.FormatDay(day)
			var rec *models.DailyProgress
			if p, ok := m.progress[key]; ok {
				rec = &p
			}
			switch calendar.ComplianceFor(key, rt, rec) {
			case models.MarkDone:
				b.WriteString(" " + doneStyle.Render("✓") + " ")
			case models.MarkSkipped:
				b.WriteString(" " + skippedStyle.Render("✗") + " ")
			default:
				b.WriteString(" " + dimStyle.Render("·") + " ")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
