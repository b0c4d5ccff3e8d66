package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"perf-manage/internal/model"
)

// AssignmentRepository stores the team roster and the tasks a project head assigned.
type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) ListMembers(ctx context.Context) ([]model.TeamMember, error) {
	var members []model.TeamMember
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindMembers resolves ids to members, preserving roster order and skipping unknown ids.
func (r *AssignmentRepository) FindMembers(ctx context.Context, ids []int64) ([]model.TeamMember, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var members []model.TeamMember
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Reset replaces the owner's assigned tasks and their assignees.
func (r *AssignmentRepository) Reset(ctx context.Context, ownerID uint, tasks []model.AssignedTask) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", ownerID).Delete(&model.Assignee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", ownerID).Delete(&model.AssignedTask{}).Error; err != nil {
			return err
		}
		for i := range tasks {
			if err := insertAssigned(tx, &tasks[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset assigned tasks: %w", err)
	}
	return nil
}

// Prepend stores task ahead of every existing one. The task id is bumped
// until it is free within the owner's list.
func (r *AssignmentRepository) Prepend(ctx context.Context, task *model.AssignedTask) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := uniqueID(tx, &model.AssignedTask{}, task.OwnerID, task.ID)
		if err != nil {
			return err
		}
		task.ID = id

		var minPos sql.NullInt64
		if err := tx.Model(&model.AssignedTask{}).Where("owner_id = ?", task.OwnerID).
			Select("MIN(position)").Row().Scan(&minPos); err != nil {
			return err
		}
		task.Position = 0
		if minPos.Valid {
			task.Position = int(minPos.Int64) - 1
		}
		return insertAssigned(tx, task)
	})
	if err != nil {
		return fmt.Errorf("assign task: %w", err)
	}
	return nil
}

func insertAssigned(tx *gorm.DB, task *model.AssignedTask) error {
	if err := tx.Create(task).Error; err != nil {
		return err
	}
	for _, m := range task.AssignedTo {
		link := model.Assignee{OwnerID: task.OwnerID, TaskID: task.ID, MemberID: m.ID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

// List returns the owner's assigned tasks newest first with assignees resolved.
func (r *AssignmentRepository) List(ctx context.Context, ownerID uint) ([]model.AssignedTask, error) {
	db := r.db.WithContext(ctx)

	var tasks []model.AssignedTask
	if err := db.Where("owner_id = ?", ownerID).Order("position ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	var links []model.Assignee
	if err := db.Where("owner_id = ?", ownerID).Find(&links).Error; err != nil {
		return nil, err
	}
	members, err := r.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.TeamMember, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	assigned := make(map[int64][]model.TeamMember)
	for _, l := range links {
		if m, ok := byID[l.MemberID]; ok {
			assigned[l.TaskID] = append(assigned[l.TaskID], m)
		}
	}
	for i := range tasks {
		tasks[i].AssignedTo = assigned[tasks[i].ID]
	}
	return tasks, nil
}
