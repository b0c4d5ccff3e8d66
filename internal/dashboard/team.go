package dashboard

import "math"

// MemberKPI is one row of the head's team KPI table.
type MemberKPI struct {
	ID            int64
	Name          string
	Avatar        string
	Title         string
	Timeliness    float64 // percent
	Quality       float64 // out of 5
	Collaboration float64 // percent
}

func TeamKPIs() []MemberKPI {
	return []MemberKPI{
		{ID: 1, Name: "John Doe", Avatar: "https://img.daisyui.com/images/stock/photo-1534528741775-53994a69daeb.webp", Title: "Field Engineer", Timeliness: 95, Quality: 4.7, Collaboration: 85},
		{ID: 2, Name: "Jane Smith", Avatar: "https://randomuser.me/api/portraits/women/44.jpg", Title: "Drafter", Timeliness: 92, Quality: 4.5, Collaboration: 90},
		{ID: 3, Name: "Mark Williams", Avatar: "https://randomuser.me/api/portraits/men/44.jpg", Title: "Surveyor", Timeliness: 85, Quality: 4.1, Collaboration: 78},
		{ID: 4, Name: "Emily Brown", Avatar: "https://randomuser.me/api/portraits/women/68.jpg", Title: "Jr. Engineer", Timeliness: 78, Quality: 3.9, Collaboration: 82},
	}
}

// Averages holds team means rounded to one decimal.
type Averages struct {
	Timeliness    float64
	Quality       float64
	Collaboration float64
}

func TeamAverages(members []MemberKPI) Averages {
	if len(members) == 0 {
		return Averages{}
	}
	var sum Averages
	for _, m := range members {
		sum.Timeliness += m.Timeliness
		sum.Quality += m.Quality
		sum.Collaboration += m.Collaboration
	}
	n := float64(len(members))
	return Averages{
		Timeliness:    round1(sum.Timeliness / n),
		Quality:       round1(sum.Quality / n),
		Collaboration: round1(sum.Collaboration / n),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Grade colours a score against a high and a mid threshold.
func Grade(score, high, mid float64) Tone {
	switch {
	case score >= high:
		return ToneSuccess
	case score >= mid:
		return ToneWarning
	default:
		return ToneError
	}
}

func GradeTimeliness(v float64) Tone    { return Grade(v, 90, 80) }
func GradeQuality(v float64) Tone       { return Grade(v, 4.5, 4.0) }
func GradeCollaboration(v float64) Tone { return Grade(v, 85, 75) }
