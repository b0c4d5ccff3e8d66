package model

import "time"

// TeamMember is static reference data shared by every assignment store.
type TeamMember struct {
	ID     int64 `gorm:"primaryKey;autoIncrement:false"`
	Name   string
	Avatar string
	Title  string
}

// AssignedTask is a task a project head handed to one or more team members.
type AssignedTask struct {
	OwnerID     uint  `gorm:"primaryKey;autoIncrement:false"`
	ID          int64 `gorm:"primaryKey;autoIncrement:false"`
	Title       string
	Description string
	DueDate     *time.Time
	Priority    Priority
	Status      TaskStatus
	Position    int
	CreatedAt   time.Time
	AssignedTo  []TeamMember `gorm:"-"`
}

// Assignee links an assigned task to a team member.
type Assignee struct {
	OwnerID  uint  `gorm:"primaryKey;autoIncrement:false"`
	TaskID   int64 `gorm:"primaryKey;autoIncrement:false"`
	MemberID int64 `gorm:"primaryKey;autoIncrement:false"`
}
