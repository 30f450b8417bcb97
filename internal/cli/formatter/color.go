package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/smolrome/DailyTimeRecord/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StateStyle returns the color used for a clock state.
func StateStyle(s domain.State) lipgloss.Style {
	switch s {
	case domain.StateClockedIn:
		return StyleGreen
	case domain.StateOnBreak:
		return StyleYellow
	default:
		return StyleDim
	}
}

// StateLabel is the human form of a clock state.
func StateLabel(s domain.State) string {
	switch s {
	case domain.StateClockedIn:
		return "Clocked in"
	case domain.StateOnBreak:
		return "On break"
	default:
		return "Clocked out"
	}
}

// StatePill returns a colored indicator such as "● Clocked in".
func StatePill(s domain.State) string {
	mark := "●"
	switch s {
	case domain.StateOnBreak:
		mark = "◐"
	case domain.StateClockedOut:
		mark = "○"
	}
	return StateStyle(s).Render(mark + " " + StateLabel(s))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
