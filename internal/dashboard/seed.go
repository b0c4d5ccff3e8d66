package dashboard

import "perf-manage/internal/model"

// OPIScore is the organizational productivity index shown on the admin gauge.
const OPIScore = 88

func EmployeeCards() []Card {
	return []Card{
		{Icon: "⏰", Title: "Task Timeliness", Value: "95%", Trend: "+2%", TrendColor: ToneSuccess, Description: "Punctuality in completing assigned tasks."},
		{Icon: "🎯", Title: "Accuracy Rate", Value: "98.7%", Trend: "-0.5%", TrendColor: ToneError, Description: "Correctness and quality of work outputs."},
		{Icon: "⚡", Title: "Productivity Score", Value: "8.2/10", Trend: "+0.8", TrendColor: ToneSuccess, Description: "Overall efficiency and task throughput."},
		// Lower response time is better, so the drop is shown as success.
		{Icon: "📨", Title: "Avg. Response Time", Value: "4.5 Hrs", Trend: "-1.2 Hrs", TrendColor: ToneSuccess, Description: "Agility in responding to files and queries."},
		{Icon: "💡", Title: "Initiatives Taken", Value: "3", Trend: "+1", TrendColor: ToneSuccess, Description: "Suggestions made or improvements adopted."},
		{Icon: "🤝", Title: "Teamwork Score", Value: "4.5/5 ★", Trend: "+0.2", TrendColor: ToneSuccess, Description: "Collaboration score from peer feedback."},
	}
}

func HeadCards() []Card {
	return []Card{
		{Icon: "📅", Title: "Team Timeliness", Value: "89%", Trend: "-3%", TrendColor: ToneError, Description: "Team Discipline"},
		{Icon: "⭐", Title: "Overall Quality Score", Value: "4.2/5", Trend: "+0.1", TrendColor: ToneSuccess, Description: "Work Quality"},
		{Icon: "🔗", Title: "Collaboration Index", Value: "76%", Trend: "+5%", TrendColor: ToneSuccess, Description: "Cross-team Efficiency"},
		{Icon: "💡", Title: "Team Initiatives", Value: "5", Trend: "+2", TrendColor: ToneSuccess, Description: "Creativity Measure"},
		{Icon: "🛠", Title: "Resource Utilization", Value: "94%", Trend: "-1%", TrendColor: ToneError, Description: "Team Efficiency"},
	}
}

func AdminCards() []Card {
	return []Card{
		{Icon: "📄", Title: "File Disposal Eff. (FDE)", Value: "92%", Trend: "+1.5%", TrendColor: ToneSuccess, Description: "HQ Responsiveness"},
		{Icon: "📈", Title: "Project Progress (PIP)", Value: "85%", Trend: "+4%", TrendColor: ToneSuccess, Description: "Project Delivery"},
		{Icon: "🐷", Title: "Budget Utilization (BUR)", Value: "89%", Trend: "-2%", TrendColor: ToneWarning, Description: "Financial Discipline"},
		{Icon: "✅", Title: "Project Success Rate (PSR)", Value: "91%", Trend: "+1%", TrendColor: ToneSuccess, Description: "Core Outcome Measure"},
		{Icon: "🔏", Title: "Compliance Index (CI)", Value: "97.5%", Trend: "+0.5%", TrendColor: ToneSuccess, Description: "Accountability Check"},
		{Icon: "❤️", Title: "Employee Engagement (EEI)", Value: "83%", Trend: "+3%", TrendColor: ToneSuccess, Description: "Workforce Motivation"},
	}
}

// Cards returns the dashboard tiles for a role.
func Cards(role model.Role) []Card {
	switch role {
	case model.RoleEmployee:
		return EmployeeCards()
	case model.RoleHead:
		return HeadCards()
	case model.RoleAdmin:
		return AdminCards()
	}
	return nil
}

// EmployeeGauges backs the "My KPIs" page. Progress is score over target max, in percent.
func EmployeeGauges() []Gauge {
	return []Gauge{
		{Icon: "⏰", Name: "Task Timeliness", Description: "Measures your punctuality in completing assigned tasks on or before the due date.", ScoreDisplay: "95%", TargetDisplay: "Target: > 90%", Progress: 95, Tone: ToneSuccess},
		{Icon: "🎯", Name: "Accuracy Rate", Description: "Reflects the correctness and quality of your work, with minimal errors.", ScoreDisplay: "98.7%", TargetDisplay: "Target: > 99%", Progress: 98.7, Tone: ToneWarning},
		{Icon: "⚡", Name: "Productivity Score", Description: "An overall efficiency score based on task throughput during working hours.", ScoreDisplay: "8.2/10", TargetDisplay: "Target: > 8.0", Progress: 82, Tone: ToneSuccess},
		{Icon: "💡", Name: "Initiatives Taken", Description: "The number of proactive suggestions you have made or improvements you have helped implement.", ScoreDisplay: "3", TargetDisplay: "Target: 5", Progress: 60, Tone: ToneWarning},
		{Icon: "🤝", Name: "Teamwork Score", Description: "A rating based on 360° feedback from your peers and project heads on collaboration.", ScoreDisplay: "4.5/5", TargetDisplay: "Target: > 4.0", Progress: 90, Tone: ToneSuccess},
	}
}

// Feedback is a peer comment on the employee dashboard.
type Feedback struct {
	Quote  string
	Author string
}

func PeerFeedback() []Feedback {
	return []Feedback{
		{Quote: "John is always proactive in offering help and has been a great collaborator on the DPR.", Author: "Jane Smith"},
		{Quote: "Excellent attention to detail in the last survey report. Very reliable.", Author: "Mark Williams"},
	}
}

// Milestone is a project milestone on the head dashboard. Tone is empty for
// milestones not started yet.
type Milestone struct {
	Name string
	Tone Tone
}

func Milestones() []Milestone {
	return []Milestone{
		{Name: "Initial Survey Report", Tone: ToneSuccess},
		{Name: "DPR Draft Submission", Tone: ToneSuccess},
		{Name: "Environmental Clearance", Tone: ToneWarning},
		{Name: "Phase 1 Tendering"},
	}
}

// WatchedProject is a row of the admin project watchlist.
type WatchedProject struct {
	Name   string
	Status string
	Tone   Tone
	BUR    string
}

func Watchlist() []WatchedProject {
	return []WatchedProject{
		{Name: "Riverfront Development", Status: "On Track", Tone: ToneSuccess, BUR: "89%"},
		{Name: "Embankment Repair", Status: "At Risk", Tone: ToneWarning, BUR: "95%"},
		{Name: "DPR for Phase 2", Status: "On Track", Tone: ToneSuccess, BUR: "75%"},
		{Name: "Hydrological Survey", Status: "Delayed", Tone: ToneError, BUR: "60%"},
	}
}
