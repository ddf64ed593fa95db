package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/resmon/internal/ui"
)

// Style variables for the dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle        lipgloss.Style
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	versionStyle      lipgloss.Style
	elapsedStyle      lipgloss.Style
	metricLabelStyle  lipgloss.Style
	metricValueStyle  lipgloss.Style
	gaugeLowStyle     lipgloss.Style
	gaugeMidStyle     lipgloss.Style
	gaugeHighStyle    lipgloss.Style
	gaugeEmptyStyle   lipgloss.Style
	sparklineStyle    lipgloss.Style
	chartStyle        lipgloss.Style
	footerKeyStyle    lipgloss.Style
	footerDescStyle   lipgloss.Style
	statusPausedStyle lipgloss.Style
	dimStyle          lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all dashboard styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been
// invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Background(t.Bg).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Background(t.Bg).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	elapsedStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	metricLabelStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	metricValueStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	gaugeLowStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	gaugeMidStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	gaugeHighStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	gaugeEmptyStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	sparklineStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	chartStyle = lipgloss.NewStyle().
		Foreground(t.Info)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	statusPausedStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
		Foreground(t.Dim)
}
