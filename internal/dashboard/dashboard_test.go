package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-manage/internal/model"
)

func TestCardSetsPerRole(t *testing.T) {
	assert.Len(t, Cards(model.RoleEmployee), 6)
	assert.Len(t, Cards(model.RoleHead), 5)
	assert.Len(t, Cards(model.RoleAdmin), 6)
	assert.Nil(t, Cards("guest"))
}

func TestTrendUp(t *testing.T) {
	cases := map[string]bool{
		"+2%":      true,
		"-0.5%":    false,
		"-1.2 Hrs": false,
		"5":        true,
	}
	for trend, up := range cases {
		assert.Equal(t, up, Card{Trend: trend}.TrendUp(), trend)
	}
}

func TestResponseTimeDropIsGood(t *testing.T) {
	var found bool
	for _, c := range EmployeeCards() {
		if c.Title == "Avg. Response Time" {
			found = true
			assert.False(t, c.TrendUp())
			assert.Equal(t, ToneSuccess, c.TrendColor)
		}
	}
	require.True(t, found)
}

func TestTeamAverages(t *testing.T) {
	avg := TeamAverages(TeamKPIs())
	assert.InDelta(t, 87.5, avg.Timeliness, 1e-9)
	assert.InDelta(t, 4.3, avg.Quality, 1e-9)
	assert.InDelta(t, 83.8, avg.Collaboration, 1e-9)

	assert.Equal(t, Averages{}, TeamAverages(nil))
}

func TestGrading(t *testing.T) {
	assert.Equal(t, ToneSuccess, GradeTimeliness(90))
	assert.Equal(t, ToneWarning, GradeTimeliness(85))
	assert.Equal(t, ToneError, GradeTimeliness(78))

	assert.Equal(t, ToneSuccess, GradeQuality(4.7))
	assert.Equal(t, ToneWarning, GradeQuality(4.1))
	assert.Equal(t, ToneError, GradeQuality(3.9))

	assert.Equal(t, ToneSuccess, GradeCollaboration(85))
	assert.Equal(t, ToneWarning, GradeCollaboration(78))
	assert.Equal(t, ToneError, GradeCollaboration(74.9))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "█████████░", Bar(88))
	assert.Equal(t, "░░░░░░░░░░", Bar(-5))
	assert.Equal(t, "██████████", Bar(150))
}

func TestHTMLRenderers(t *testing.T) {
	assert.Contains(t, HTMLDashboard(model.RoleAdmin), "88/100")
	assert.Contains(t, HTMLDashboard(model.RoleHead), "Team Timeliness")
	assert.Contains(t, HTMLDashboard(model.RoleEmployee), "Teamwork Score")
	assert.Equal(t, "Unknown role.", HTMLDashboard("guest"))

	team := HTMLTeamKPIs()
	assert.Contains(t, team, "87.5%")
	assert.Contains(t, team, "Emily Brown")

	assert.Contains(t, HTMLEmployeeKPIs(), "Target: &gt; 90%")
}
