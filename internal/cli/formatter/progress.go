package formatter

import (
	"fmt"
	"strings"
	"time"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// DayFraction is worked/target, or 0 when target is not positive. It may
// exceed 1 once the workday is done.
func DayFraction(worked, target time.Duration) float64 {
	if target <= 0 || worked <= 0 {
		return 0
	}
	return float64(worked) / float64(target)
}

// RenderProgress renders a workday bar like [████░░░░] 45%.
// Blue while short of the target, green when reached, yellow in overtime.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if width < 2 {
		width = 2
	}

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleBlue
	switch {
	case pct > 1:
		style = StyleYellow
	case pct == 1:
		style = StyleGreen
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
