package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// gauge thresholds: below warnAt renders green, below critAt orange, red
// above.
const (
	gaugeWarnAt = 70
	gaugeCritAt = 90
)

// renderGauge renders a horizontal usage bar of the given width for a
// percentage in [0, 100].
func renderGauge(percent, width int) string {
	if width < 1 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := percent * width / 100
	if filled > width {
		filled = width
	}

	style := gaugeLowStyle
	switch {
	case percent >= gaugeCritAt:
		style = gaugeHighStyle
	case percent >= gaugeWarnAt:
		style = gaugeMidStyle
	}

	bar := style.Render(repeatRune('█', filled))
	rest := gaugeEmptyStyle.Render(repeatRune('░', width-filled))
	return bar + rest
}

// renderMetricPanel renders one bordered metric panel: label and current
// value on the first row, gauge on the second, history sparkline on the
// third. history is oldest first.
func renderMetricPanel(label string, percent int, history []float64, width int) string {
	innerWidth := width - 4
	if innerWidth < 8 {
		innerWidth = 8
	}

	value := metricValueStyle.Render(fmt.Sprintf("%3d%%", percent))
	name := metricLabelStyle.Render(label)
	gap := innerWidth - lipgloss.Width(name) - lipgloss.Width(value)
	if gap < 1 {
		gap = 1
	}
	top := name + spaces(gap) + value

	gauge := renderGauge(percent, innerWidth)

	spark := history
	if len(spark) > innerWidth {
		spark = spark[len(spark)-innerWidth:]
	}
	sparkRow := sparklineStyle.Render(RenderSparkline(spark))
	if len(spark) == 0 {
		sparkRow = dimStyle.Render("collecting...")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, top, gauge, sparkRow)
	return panelStyle.Width(width - 2).Render(content)
}

// repeatRune returns a string of n copies of r.
func repeatRune(r rune, n int) string {
	if n <= 0 {
		return ""
	}
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = r
	}
	return string(runes)
}
