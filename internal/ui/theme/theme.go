package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette, calm school colours that read on dark and light terminals.
var (
	Primary   = lipgloss.Color("#2563EB") // Blue
	Secondary = lipgloss.Color("#0D9488") // Teal
	Accent    = lipgloss.Color("#D97706") // Amber
	Success   = lipgloss.Color("#16A34A") // Green
	Error     = lipgloss.Color("#DC2626") // Red
	TextDim   = lipgloss.Color("#64748B") // Slate
	Border    = lipgloss.Color("#94A3B8") // Light slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Label = lipgloss.NewStyle().
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Rule = lipgloss.NewStyle().
		Foreground(Border)
)

// States
var (
	Recommended = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Unsupported = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Failed = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	BarFilled = lipgloss.NewStyle().
			Foreground(Secondary)

	BarEmpty = lipgloss.NewStyle().
			Foreground(Border)
)

// Bar renders a horizontal bar of width cells filled in proportion to
// frac, clamped to [0, 1].
func Bar(frac float64, width int) string {
	frac = min(max(frac, 0), 1)
	filled := int(frac*float64(width) + 0.5)
	return BarFilled.Render(strings.Repeat("█", filled)) +
		BarEmpty.Render(strings.Repeat("░", width-filled))
}

// Separator returns a horizontal rule of n cells.
func Separator(n int) string {
	return Rule.Render(strings.Repeat("─", n))
}
