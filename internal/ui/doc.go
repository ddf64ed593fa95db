// Package ui provides theme and color support for the application's user
// interface. It defines the ANSI palette used by the diagnostic output and
// the lipgloss palette used by the dashboard, so presentation stays
// consistent across both surfaces.
package ui
