package ui

import (
	"github.com/fatih/color"

	"perf-manage/internal/dashboard"
)

// Sprint color functions for building styled strings.
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Red        = color.New(color.FgRed).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	BoldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
)

// Tone paints s in the colour of a dashboard tone.
func Tone(t dashboard.Tone, s string) string {
	switch t {
	case dashboard.ToneSuccess:
		return BoldGreen(s)
	case dashboard.ToneWarning:
		return Yellow(s)
	case dashboard.ToneError:
		return Red(s)
	default:
		return Dim(s)
	}
}

// TrendArrow returns a coloured arrow for a card's trend.
func TrendArrow(c dashboard.Card) string {
	if c.TrendUp() {
		return Tone(c.TrendColor, "▲ "+c.Trend)
	}
	return Tone(c.TrendColor, "▼ "+c.Trend)
}
