package model

import "time"

// TaskStatus is the lifecycle state of an employee task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "Pending"
	TaskCompleted TaskStatus = "Completed"
	TaskApproved  TaskStatus = "Approved"
)

// TaskTabs lists employee task statuses in tab order.
var TaskTabs = []TaskStatus{TaskPending, TaskCompleted, TaskApproved}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskCompleted, TaskApproved:
		return true
	}
	return false
}

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is an item in an employee's task log. OwnerID scopes the record to the
// viewer whose store holds it.
type Task struct {
	OwnerID       uint   `gorm:"primaryKey;autoIncrement:false"`
	ID            int64  `gorm:"primaryKey;autoIncrement:false"`
	Title         string
	AssignedBy    string
	DueDate       *time.Time
	Priority      Priority
	Status        TaskStatus `gorm:"index"`
	CompletedDate *time.Time
	ApprovedDate  *time.Time
	Position      int
}

// Overdue reports whether the whole due day has passed at now.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && now.After(t.DueDate.Add(24*time.Hour))
}

// DueSoon reports whether a task that is not yet overdue is due within two days.
func (t Task) DueSoon(now time.Time) bool {
	return t.DueDate != nil && !t.Overdue(now) && t.DueDate.Sub(now) <= 48*time.Hour
}
