package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"perf-manage/internal/model"
)

// TaskRepository stores employee task logs.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Reset replaces the owner's task log with tasks.
func (r *TaskRepository) Reset(ctx context.Context, ownerID uint, tasks []model.Task) error {
	if err := replaceOwned(ctx, r.db, &model.Task{}, ownerID, &tasks, len(tasks)); err != nil {
		return fmt.Errorf("reset tasks: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListByStatus(ctx context.Context, ownerID uint, status model.TaskStatus) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND status = ?", ownerID, status).
		Order("position ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) CountByStatus(ctx context.Context, ownerID uint, status model.TaskStatus) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, ownerID uint, taskID int64) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// MarkCompleted moves a pending task to Completed. It reports false when the
// task was no longer pending.
func (r *TaskRepository) MarkCompleted(ctx context.Context, task *model.Task, completedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("owner_id = ? AND id = ? AND status = ?", task.OwnerID, task.ID, model.TaskPending).
		Updates(map[string]interface{}{
			"status":         model.TaskCompleted,
			"completed_date": completedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("complete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	task.Status = model.TaskCompleted
	task.CompletedDate = &completedAt
	return true, nil
}
