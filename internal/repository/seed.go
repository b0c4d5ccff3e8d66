package repository

import (
	"time"

	"perf-manage/internal/model"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// SeedTasks is the task log every employee starts with.
func SeedTasks(ownerID uint) []model.Task {
	return []model.Task{
		{OwnerID: ownerID, ID: 1, Title: "Prepare Weekly Progress Report", AssignedBy: "Jane Smith", DueDate: day("2025-10-05"), Priority: model.PriorityHigh, Status: model.TaskPending, Position: 0},
		{OwnerID: ownerID, ID: 2, Title: "Update Site Survey Data", AssignedBy: "Jane Smith", DueDate: day("2025-10-08"), Priority: model.PriorityMedium, Status: model.TaskPending, Position: 1},
		{OwnerID: ownerID, ID: 3, Title: "Prepared minutes for the weekly project meeting.", CompletedDate: day("2025-10-02"), Status: model.TaskCompleted, Position: 2},
		{OwnerID: ownerID, ID: 4, Title: "Completed initial site survey for Riverfront Project.", CompletedDate: day("2025-10-01"), ApprovedDate: day("2025-10-02"), Status: model.TaskApproved, Position: 3},
		{OwnerID: ownerID, ID: 5, Title: "Submitted draft of the DPR for Phase 1.", CompletedDate: day("2025-09-28"), ApprovedDate: day("2025-09-29"), Status: model.TaskApproved, Position: 4},
	}
}

const (
	avatarJohn = "https://img.daisyui.com/images/stock/photo-1534528741775-53994a69daeb.webp"
	avatarJane = "https://randomuser.me/api/portraits/women/44.jpg"
	avatarMark = "https://randomuser.me/api/portraits/men/44.jpg"
)

// SeedSubmissions is the review queue every project head starts with.
func SeedSubmissions(ownerID uint) []model.Submission {
	return []model.Submission{
		{OwnerID: ownerID, ID: 3, User: "John Doe", Avatar: avatarJohn, Description: "Prepared minutes for the weekly project meeting.", Date: "2025-10-02", Status: model.SubmissionPending, Position: 0},
		{OwnerID: ownerID, ID: 4, User: "Jane Smith", Avatar: avatarJane, Description: "Finalized CAD drawings for the embankment.", Date: "2025-10-02", Status: model.SubmissionPending, Position: 1},
		{OwnerID: ownerID, ID: 1, User: "John Doe", Avatar: avatarJohn, Description: "Completed initial site survey for Riverfront Project.", Date: "2025-10-01", Status: model.SubmissionApproved, Position: 2},
		{OwnerID: ownerID, ID: 2, User: "Jane Smith", Avatar: avatarJane, Description: "Submitted draft of the DPR for Phase 1.", Date: "2025-09-28", Status: model.SubmissionApproved, Position: 3},
	}
}

// SeedMembers is the static roster of assignable team members.
func SeedMembers() []model.TeamMember {
	return []model.TeamMember{
		{ID: 1, Name: "John Doe", Avatar: avatarJohn, Title: "Field Engineer"},
		{ID: 2, Name: "Jane Smith", Avatar: avatarJane, Title: "Drafter"},
		{ID: 3, Name: "Mark Williams", Avatar: avatarMark, Title: "Surveyor"},
	}
}

// SeedAssignedTasks is the assignment list every project head starts with.
// AssignedTo carries only member ids; the repository resolves the rest.
func SeedAssignedTasks(ownerID uint) []model.AssignedTask {
	return []model.AssignedTask{
		{OwnerID: ownerID, ID: 101, Title: "Review Phase 1 DPR Draft", DueDate: day("2025-10-10"), Priority: model.PriorityHigh, Status: model.TaskPending, Position: 0,
			AssignedTo: []model.TeamMember{{ID: 2}}},
		{OwnerID: ownerID, ID: 102, Title: "Conduct Hydrological Survey", DueDate: day("2025-10-15"), Priority: model.PriorityMedium, Status: model.TaskPending, Position: 1,
			AssignedTo: []model.TeamMember{{ID: 1}, {ID: 3}}},
	}
}

// SeedKPIs is the catalog every admin starts with.
func SeedKPIs(ownerID uint) []model.KPI {
	return []model.KPI{
		{OwnerID: ownerID, ID: 1, Name: "Task Timeliness", Description: "Measures punctuality in completing tasks.", Role: model.KPIRoleEmployee, Status: model.KPIActive, Position: 0},
		{OwnerID: ownerID, ID: 2, Name: "Quality Score", Description: "Peer/supervisor review rating for work quality.", Role: model.KPIRoleProjectHead, Status: model.KPIActive, Position: 1},
		{OwnerID: ownerID, ID: 3, Name: "Budget Utilization Ratio (BUR)", Description: "Ensures financial discipline for projects.", Role: model.KPIRoleOrganization, Status: model.KPIActive, Position: 2},
		{OwnerID: ownerID, ID: 4, Name: "Innovation & Initiative", Description: "Measures employee engagement and creativity.", Role: model.KPIRoleEmployee, Status: model.KPIInactive, Position: 3},
	}
}
