package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette (256-color).
var (
	clrBrand  = lipgloss.Color("214") // orange
	clrText   = lipgloss.Color("252") // light gray
	clrMuted  = lipgloss.Color("245") // gray
	clrSubtle = lipgloss.Color("240") // darker gray
	clrBorder = lipgloss.Color("238")
)

var (
	styleBrand   = lipgloss.NewStyle().Foreground(clrBrand).Bold(true)
	styleItem    = lipgloss.NewStyle().Foreground(clrText)
	styleActive  = lipgloss.NewStyle().Foreground(clrBrand).Underline(true)
	styleSubItem = lipgloss.NewStyle().Foreground(clrMuted)
	styleRule    = lipgloss.NewStyle().Foreground(clrBorder)
	styleHelp    = lipgloss.NewStyle().Foreground(clrSubtle)
	stylePanel   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrBorder).
			Padding(0, 1)
)

// fade approximates an opacity value with the palette.
func fade(s lipgloss.Style, opacity float64) lipgloss.Style {
	switch {
	case opacity < 0.34:
		return s.Foreground(clrSubtle).Faint(true)
	case opacity < 0.67:
		return s.Foreground(clrMuted)
	default:
		return s
	}
}

// animationsEnabled returns false when NO_COLOR is set or TERM=dumb.
func animationsEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(os.Getenv("TERM"))) != "dumb"
}
