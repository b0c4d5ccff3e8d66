package model

// SubmissionStatus is the review state of a team submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "Pending"
	SubmissionApproved SubmissionStatus = "Approved"
	SubmissionRejected SubmissionStatus = "Rejected"
)

var SubmissionFilters = []SubmissionStatus{SubmissionPending, SubmissionApproved, SubmissionRejected}

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return true
	}
	return false
}

// Submission is work reported by a team member and reviewed by a project head.
type Submission struct {
	OwnerID     uint  `gorm:"primaryKey;autoIncrement:false"`
	ID          int64 `gorm:"primaryKey;autoIncrement:false"`
	User        string
	Avatar      string
	Description string
	Date        string
	Status      SubmissionStatus `gorm:"index"`
	Position    int
}
