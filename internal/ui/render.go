package ui

import (
	"fmt"
	"io"
	"strings"

	"perf-manage/internal/dashboard"
	"perf-manage/internal/model"
)

// RenderDashboard writes the dashboard of a role to w.
func RenderDashboard(w io.Writer, role model.Role) error {
	switch role {
	case model.RoleEmployee:
		header(w, "My Dashboard")
		cards(w, dashboard.EmployeeCards())
		section(w, "Recent Peer Feedback")
		for _, f := range dashboard.PeerFeedback() {
			fmt.Fprintf(w, "  %q\n  %s\n", f.Quote, Dim("- "+f.Author))
		}
	case model.RoleHead:
		header(w, "Project Head Dashboard")
		cards(w, dashboard.HeadCards())
		section(w, "Project Milestones")
		for _, m := range dashboard.Milestones() {
			fmt.Fprintf(w, "  %s %s\n", Tone(m.Tone, "●"), m.Name)
		}
	case model.RoleAdmin:
		header(w, "Organization Dashboard")
		fmt.Fprintf(w, "  %s  %s %s\n\n", Bold("OPI"),
			Tone(dashboard.GradeTimeliness(dashboard.OPIScore), dashboard.Bar(dashboard.OPIScore)),
			BoldCyan(fmt.Sprintf("%d/100", dashboard.OPIScore)))
		cards(w, dashboard.AdminCards())
		section(w, "Project Watchlist")
		for _, p := range dashboard.Watchlist() {
			fmt.Fprintf(w, "  %-24s %s  BUR %s\n", p.Name, Tone(p.Tone, fmt.Sprintf("%-9s", p.Status)), p.BUR)
		}
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	return nil
}

// RenderTeamKPIs writes the team averages and member table to w.
func RenderTeamKPIs(w io.Writer) {
	members := dashboard.TeamKPIs()
	avg := dashboard.TeamAverages(members)

	header(w, "Team KPI Performance")
	fmt.Fprintf(w, "  Avg. Timeliness %s   Avg. Quality %s   Avg. Collaboration %s\n\n",
		Bold(fmt.Sprintf("%.1f%%", avg.Timeliness)),
		Bold(fmt.Sprintf("%.1f/5", avg.Quality)),
		Bold(fmt.Sprintf("%.1f%%", avg.Collaboration)))

	fmt.Fprintf(w, "  %s\n", Dim(fmt.Sprintf("%-16s %-16s %10s %8s %14s", "Member", "Role", "Timeliness", "Quality", "Collaboration")))
	for _, m := range members {
		fmt.Fprintf(w, "  %-16s %-16s %s %s %s\n", m.Name, m.Title,
			Tone(dashboard.GradeTimeliness(m.Timeliness), fmt.Sprintf("%9.0f%%", m.Timeliness)),
			Tone(dashboard.GradeQuality(m.Quality), fmt.Sprintf("%8.1f", m.Quality)),
			Tone(dashboard.GradeCollaboration(m.Collaboration), fmt.Sprintf("%13.0f%%", m.Collaboration)))
	}
}

// RenderEmployeeKPIs writes the "My KPIs" gauges to w.
func RenderEmployeeKPIs(w io.Writer) {
	header(w, "My KPIs")
	for _, g := range dashboard.EmployeeGauges() {
		fmt.Fprintf(w, "  %-20s %s %s  %s\n", g.Name, Tone(g.Tone, dashboard.Bar(g.Progress)), Bold(g.ScoreDisplay), Dim(g.TargetDisplay))
	}
}

func header(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n\n", BoldCyan(title), Dim(strings.Repeat("─", len(title))))
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", Bold(title))
}

func cards(w io.Writer, cs []dashboard.Card) {
	for _, c := range cs {
		fmt.Fprintf(w, "  %s %-28s %-10s %s\n", c.Icon, c.Title, Bold(c.Value), TrendArrow(c))
		fmt.Fprintf(w, "     %s\n", Dim(c.Description))
	}
}
