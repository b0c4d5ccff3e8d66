package dashboard

import (
	"fmt"
	"html"
	"strings"

	"perf-manage/internal/model"
)

var toneDot = map[Tone]string{
	ToneSuccess: "🟢",
	ToneWarning: "🟡",
	ToneError:   "🔴",
}

// Dot returns the coloured marker for a tone.
func Dot(t Tone) string {
	if d, ok := toneDot[t]; ok {
		return d
	}
	return "⚪"
}

func arrow(c Card) string {
	if c.TrendUp() {
		return "▲"
	}
	return "▼"
}

// Bar draws a ten-cell progress bar for a 0-100 value.
func Bar(progress float64) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	filled := int(progress/10 + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func writeCards(b *strings.Builder, cards []Card) {
	for _, c := range cards {
		fmt.Fprintf(b, "%s <b>%s</b>: %s  %s %s %s\n<i>%s</i>\n\n",
			c.Icon, html.EscapeString(c.Title), html.EscapeString(c.Value),
			Dot(c.TrendColor), arrow(c), html.EscapeString(c.Trend),
			html.EscapeString(c.Description))
	}
}

// HTMLDashboard renders the role dashboard as Telegram HTML.
func HTMLDashboard(role model.Role) string {
	var b strings.Builder
	switch role {
	case model.RoleEmployee:
		b.WriteString("📊 <b>My Dashboard</b>\n\n")
		writeCards(&b, EmployeeCards())
		b.WriteString("💬 <b>Recent Peer Feedback</b>\n")
		for _, f := range PeerFeedback() {
			fmt.Fprintf(&b, "“%s”\n  - %s\n", html.EscapeString(f.Quote), html.EscapeString(f.Author))
		}
	case model.RoleHead:
		b.WriteString("📊 <b>Project Head Dashboard</b>\n\n")
		writeCards(&b, HeadCards())
		b.WriteString("🏁 <b>Project Milestones</b>\n")
		for _, m := range Milestones() {
			fmt.Fprintf(&b, "%s %s\n", Dot(m.Tone), html.EscapeString(m.Name))
		}
		b.WriteString("\n👥 <b>Team Member Snapshot</b>\n")
		for _, m := range TeamKPIs()[:3] {
			fmt.Fprintf(&b, "%s %s · %s · on-time %s%% · quality %.1f / 5\n",
				Dot(GradeTimeliness(m.Timeliness)), html.EscapeString(m.Name),
				html.EscapeString(m.Title), formatNum(m.Timeliness), m.Quality)
		}
	case model.RoleAdmin:
		b.WriteString("🏛 <b>Organization Dashboard</b>\n\n")
		fmt.Fprintf(&b, "<b>Organizational Productivity Index (OPI)</b>\n%s %d/100\n<i>A weighted score reflecting overall organizational efficiency.</i>\n\n",
			Bar(OPIScore), OPIScore)
		writeCards(&b, AdminCards())
		b.WriteString("👀 <b>Project Watchlist</b>\n")
		for _, p := range Watchlist() {
			fmt.Fprintf(&b, "%s %s · %s · BUR %s\n", Dot(p.Tone), html.EscapeString(p.Name), p.Status, p.BUR)
		}
	default:
		return "Unknown role."
	}
	return strings.TrimSpace(b.String())
}

// HTMLEmployeeKPIs renders the "My KPIs" gauges.
func HTMLEmployeeKPIs() string {
	var b strings.Builder
	b.WriteString("🎯 <b>My KPIs</b>\n\n")
	for _, g := range EmployeeGauges() {
		fmt.Fprintf(&b, "%s <b>%s</b>  %s\n%s %s\n<i>%s</i>\n\n",
			g.Icon, html.EscapeString(g.Name), html.EscapeString(g.ScoreDisplay),
			Bar(g.Progress), Dot(g.Tone), html.EscapeString(g.Description))
		fmt.Fprintf(&b, "%s\n\n", html.EscapeString(g.TargetDisplay))
	}
	return strings.TrimSpace(b.String())
}

// HTMLTeamKPIs renders the team averages and the per-member table.
func HTMLTeamKPIs() string {
	members := TeamKPIs()
	avg := TeamAverages(members)

	var b strings.Builder
	b.WriteString("👥 <b>Team KPI Performance</b>\n\n")
	fmt.Fprintf(&b, "📅 Avg. Team Timeliness: <b>%.1f%%</b>\n", avg.Timeliness)
	fmt.Fprintf(&b, "⭐ Avg. Quality Score: <b>%.1f/5</b>\n", avg.Quality)
	fmt.Fprintf(&b, "🤝 Avg. Collaboration Index: <b>%.1f%%</b>\n\n", avg.Collaboration)
	for _, m := range members {
		fmt.Fprintf(&b, "<b>%s</b> (%s)\n  %s timeliness %s%%  %s quality %.1f  %s collaboration %s%%\n",
			html.EscapeString(m.Name), html.EscapeString(m.Title),
			Dot(GradeTimeliness(m.Timeliness)), formatNum(m.Timeliness),
			Dot(GradeQuality(m.Quality)), m.Quality,
			Dot(GradeCollaboration(m.Collaboration)), formatNum(m.Collaboration))
	}
	return strings.TrimSpace(b.String())
}

func formatNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
