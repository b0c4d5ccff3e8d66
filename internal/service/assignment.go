package service

import (
	"context"
	"strings"
	"time"

	"perf-manage/internal/model"
	"perf-manage/internal/repository"
)

// AssignForm is the project head's task assignment form.
type AssignForm struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    model.Priority
	MemberIDs   []int64
}

func NewAssignForm() AssignForm {
	return AssignForm{Priority: model.PriorityMedium}
}

// Toggle selects or deselects a team member.
func (f *AssignForm) Toggle(memberID int64) {
	for i, id := range f.MemberIDs {
		if id == memberID {
			f.MemberIDs = append(f.MemberIDs[:i], f.MemberIDs[i+1:]...)
			return
		}
	}
	f.MemberIDs = append(f.MemberIDs, memberID)
}

func (f AssignForm) Selected(memberID int64) bool {
	for _, id := range f.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// Reset empties every field back to its default.
func (f *AssignForm) Reset() {
	*f = NewAssignForm()
}

// Assignment creates tasks for team members on behalf of a project head.
type Assignment struct {
	repo *repository.AssignmentRepository
}

func NewAssignment(repo *repository.AssignmentRepository) *Assignment {
	return &Assignment{repo: repo}
}

func (s *Assignment) Mount(ctx context.Context, ownerID uint) error {
	return s.repo.Reset(ctx, ownerID, repository.SeedAssignedTasks(ownerID))
}

func (s *Assignment) Members(ctx context.Context) ([]model.TeamMember, error) {
	return s.repo.ListMembers(ctx)
}

// List returns assigned tasks newest first.
func (s *Assignment) List(ctx context.Context, ownerID uint) ([]model.AssignedTask, error) {
	return s.repo.List(ctx, ownerID)
}

// Submit validates the form and puts a new pending task at the top of the list.
// A rejected form leaves the list untouched.
func (s *Assignment) Submit(ctx context.Context, ownerID uint, form AssignForm, now time.Time) (*model.AssignedTask, Notice, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" || len(form.MemberIDs) == 0 {
		return nil, Notice{}, invalid("Please provide a title and select a team member.")
	}

	members, err := s.repo.FindMembers(ctx, form.MemberIDs)
	if err != nil {
		return nil, Notice{}, err
	}
	if len(members) == 0 {
		return nil, Notice{}, invalid("Please provide a title and select a team member.")
	}

	priority := form.Priority
	if !priority.Valid() {
		priority = model.PriorityMedium
	}

	task := &model.AssignedTask{
		OwnerID:     ownerID,
		ID:          now.UnixMilli(),
		Title:       title,
		Description: strings.TrimSpace(form.Description),
		DueDate:     form.DueDate,
		Priority:    priority,
		Status:      model.TaskPending,
		CreatedAt:   now,
		AssignedTo:  members,
	}
	if err := s.repo.Prepend(ctx, task); err != nil {
		return nil, Notice{}, err
	}
	return task, success("Task assigned successfully!"), nil
}
