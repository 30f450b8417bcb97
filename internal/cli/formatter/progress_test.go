package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayFraction(t *testing.T) {
	assert.Equal(t, 0.5, DayFraction(4*time.Hour, 8*time.Hour))
	assert.Equal(t, 1.25, DayFraction(10*time.Hour, 8*time.Hour))
	assert.Zero(t, DayFraction(time.Hour, 0))
	assert.Zero(t, DayFraction(-time.Hour, 8*time.Hour))
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name   string
		pct    float64
		width  int
		filled int
		label  string
	}{
		{"empty", 0, 4, 0, "  0%"},
		{"half", 0.5, 4, 2, " 50%"},
		{"done", 1, 4, 4, "100%"},
		{"overtime fills the bar", 1.5, 4, 4, "150%"},
		{"negative clamps", -1, 4, 0, "  0%"},
		{"tiny width clamps to 2", 0.5, 1, 1, " 50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgress(tt.pct, tt.width)
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.True(t, strings.HasSuffix(got, tt.label), got)
		})
	}
}
