package formatter

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	clockLayout = "15:04:05"
	dateLayout  = "Mon, Jan 02 2006"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// ClockTime formats the time of day, e.g. "09:05:00".
func ClockTime(t time.Time) string {
	return t.Format(clockLayout)
}

// DayLabel returns "Today", "Yesterday" or an absolute date relative to now.
func DayLabel(t, now time.Time) string {
	switch {
	case sameDay(t, now):
		return "Today"
	case sameDay(t, now.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return t.Format(dateLayout)
	}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// keyValues aligns "label  value" lines on the longest label.
func keyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	lines := make([]string, len(pairs))
	for i, p := range pairs {
		pad := strings.Repeat(" ", width-lipgloss.Width(p[0]))
		lines[i] = Dim(p[0]) + pad + "  " + p[1]
	}
	return strings.Join(lines, "\n")
}
