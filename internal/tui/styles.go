package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorWork    = lipgloss.Color("#E06C75")
	ColorBreak   = lipgloss.Color("#56B6C2")
	ColorLong    = lipgloss.Color("#61AFEF")
	ColorMuted   = lipgloss.Color("#636B78")
	ColorFg      = lipgloss.Color("#ABB2BF")
	ColorSuccess = lipgloss.Color("#98C379")
	ColorWarn    = lipgloss.Color("#E5C07B")
	ColorBorder  = lipgloss.Color("#3F4451")
)

var (
	FrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 3)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Bold(true)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Underline(true)

	ClockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 0)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TaskStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Italic(true)

	AlertStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorWarn)
)

func phaseColor(p string) lipgloss.Color {
	switch p {
	case "short_break":
		return ColorBreak
	case "long_break":
		return ColorLong
	default:
		return ColorWork
	}
}
