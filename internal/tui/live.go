// Package tui is the interactive live view: it steps one cell per tick and
// redraws its column.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/viz"
)

const (
	canvasWidth     = 30
	canvasHeight    = 16
	historyCapacity = 600
	depositionStep  = 0.1
	sparkWidth      = 16
)

type TickMsg time.Time

// Model drives a cell with constant forcing that the user can tune.
type Model struct {
	initial    cell.Cell
	cell       cell.Cell
	deposition float64
	surface    float64
	years      float64
	subSteps   int
	interval   time.Duration
	running    bool
	elevation  []float64
	err        error
	showHelp   bool
}

func NewModel(c cell.Cell, deposition, surface, years float64, subSteps int, interval time.Duration) Model {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return Model{
		initial:    c,
		cell:       c,
		deposition: deposition,
		surface:    surface,
		years:      years,
		subSteps:   subSteps,
		interval:   interval,
		running:    true,
		elevation:  []float64{c.Elevation()},
	}
}

func (m Model) Cell() cell.Cell { return m.cell }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the cell.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			m.step()
		case "r":
			m.reset()
		case "up", "k", "+":
			m.deposition += depositionStep
		case "down", "j", "-":
			m.deposition -= depositionStep
		case "t":
			viz.NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	next, err := m.cell.StepForward(m.deposition, m.surface, m.years, m.subSteps)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.err = nil
	m.cell = next
	m.elevation = append(m.elevation, next.Elevation())
	if len(m.elevation) > historyCapacity {
		m.elevation = m.elevation[1:]
	}
}

func (m *Model) reset() {
	m.cell = m.initial
	m.elevation = []float64{m.initial.Elevation()}
	m.err = nil
}

// View renders the column beside the summary and elevation history.
func (m Model) View() string {
	column := viz.ColumnCanvas(m.cell.Layers(), canvasWidth, canvasHeight)
	canvasView := viz.Panel().Render(column.String())

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(viz.Summary(m.cell) + "\n\n")
	s.WriteString(viz.KeyValue("status", status) + "\n")
	s.WriteString(viz.KeyValue("deposition", fmt.Sprintf("%+.2f cm/step", m.deposition)) + "\n")
	s.WriteString(viz.KeyValue("surface", fmt.Sprintf("%.4f g/cm3", m.surface)) + "\n\n")
	if len(m.elevation) > 1 {
		s.WriteString(viz.KeyValue("trend", viz.Sparkline(m.elevation, sparkWidth)) + "\n")
		s.WriteString(viz.HistoryPlot(m.elevation, "elevation [cm]", 30, 4) + "\n")
	}
	if m.err != nil {
		s.WriteString(viz.WarningStyle().Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + viz.Separator(30) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(viz.CurrentTheme.Muted).Render("SP:Pause N:Step R:Reset Q:Quit\n↑↓:Deposition T:Theme ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, viz.Panel().Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + main
	}
	return main
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume stepping    ║
║  N        - Advance one step         ║
║  R        - Reset to the first cell  ║
║  Up/K/+   - Raise deposition         ║
║  Down/J/- - Lower deposition         ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
