package dashboard

import "strings"

// Tone is the colour a value is shown in.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
)

// Card is one KPI tile on a role dashboard.
type Card struct {
	Icon        string
	Title       string
	Value       string
	Trend       string
	TrendColor  Tone
	Description string
}

// TrendUp reports whether the trend arrow points up. A trend with no sign
// counts as up.
func (c Card) TrendUp() bool {
	return strings.HasPrefix(c.Trend, "+") || !strings.Contains(c.Trend, "-")
}

// Gauge is a radial KPI on the employee "My KPIs" page.
type Gauge struct {
	Icon          string
	Name          string
	Description   string
	ScoreDisplay  string
	TargetDisplay string
	Progress      float64
	Tone          Tone
}
