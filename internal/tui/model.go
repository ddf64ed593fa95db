// Package tui implements the terminal dashboard: live gauges, sparklines,
// and a braille utilization chart fed by the sampler's read-only accessors.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/resmon/internal/errors"
	"github.com/agbru/resmon/internal/monitor"
	"github.com/agbru/resmon/internal/sensor"
)

// TickMsg triggers a refresh of the dashboard readings.
type TickMsg time.Time

// ContextCancelledMsg reports that the parent context was canceled.
type ContextCancelledMsg struct{}

// reading is one metric's state as displayed: the rounded current value and
// the retained history in chronological order.
type reading struct {
	percent int
	history []float64
}

// chartRows is the height of the braille utilization chart.
const chartRows = 4

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header  HeaderModel
	keymap  KeyMap
	monitor *monitor.Monitor
	ctx     context.Context

	readings map[sensor.Metric]reading

	width   int
	height  int
	paused  bool
	showGPU bool
}

// NewModel creates a dashboard model reading from mon. The dashboard quits
// when ctx is canceled.
func NewModel(ctx context.Context, mon *monitor.Monitor, version string) Model {
	return Model{
		header:   NewHeaderModel(version),
		keymap:   DefaultKeyMap(),
		monitor:  mon,
		ctx:      ctx,
		readings: make(map[sensor.Metric]reading),
		showGPU:  true,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.monitor.Interval()), watchContextCmd(m.ctx))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(m.width)
		return m, nil

	case TickMsg:
		if !m.paused {
			m.refreshReadings()
		}
		return m, tickCmd(m.monitor.Interval())

	case ContextCancelledMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.GPU):
		m.showGPU = !m.showGPU
		return m, nil
	}

	return m, nil
}

// refreshReadings copies the sampler's current values and history into the
// model. The accessors never block on sampling, so this stays cheap.
func (m *Model) refreshReadings() {
	for _, metric := range sensor.All() {
		samples := m.monitor.History(metric, monitor.DefaultHistoryCap)
		// Accessors return newest first; charts plot oldest first.
		history := make([]float64, len(samples))
		for i, v := range samples {
			history[len(samples)-1-i] = float64(v)
		}
		m.readings[metric] = reading{
			percent: m.monitor.Current(metric),
			history: history,
		}
	}
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := m.header.View()

	panels := []string{
		renderMetricPanel("CPU", m.readings[sensor.CPU].percent,
			m.readings[sensor.CPU].history, m.width),
		renderMetricPanel("Memory", m.readings[sensor.Memory].percent,
			m.readings[sensor.Memory].history, m.width),
	}
	if m.showGPU {
		panels = append(panels, renderMetricPanel("GPU", m.readings[sensor.GPU].percent,
			m.readings[sensor.GPU].history, m.width))
	}

	chart := m.renderChart()
	footer := m.renderFooter()

	parts := append([]string{header}, panels...)
	parts = append(parts, chart, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderChart renders the braille CPU utilization chart.
func (m Model) renderChart() string {
	innerWidth := m.width - 4
	if innerWidth < 8 {
		innerWidth = 8
	}

	rows := RenderBrailleChart(m.readings[sensor.CPU].history, innerWidth, chartRows)
	if rows == nil {
		rows = []string{dimStyle.Render("collecting...")}
	}
	styled := make([]string, len(rows))
	for i, row := range rows {
		styled[i] = chartStyle.Render(row)
	}

	title := metricLabelStyle.Render("CPU history")
	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title}, styled...)...)
	return panelStyle.Width(m.width - 2).Render(content)
}

// renderFooter renders the key help line.
func (m Model) renderFooter() string {
	status := ""
	if m.paused {
		status = statusPausedStyle.Render("PAUSED") + "  "
	}
	return status +
		footerKeyStyle.Render("q") + footerDescStyle.Render(" quit  ") +
		footerKeyStyle.Render("p") + footerDescStyle.Render(" pause  ") +
		footerKeyStyle.Render("g") + footerDescStyle.Render(" toggle gpu")
}

// tickCmd returns a command that sends a TickMsg after the sampling
// interval, keeping the dashboard in step with the sampler.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// watchContextCmd quits the dashboard when the parent context is canceled,
// typically on SIGINT delivered outside the terminal session.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{}
	}
}

// Run is the public entry point for the dashboard mode. It creates the
// bubbletea program, runs it until quit or context cancellation, and
// returns the exit code.
func Run(ctx context.Context, mon *monitor.Monitor, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, mon, version)

	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
