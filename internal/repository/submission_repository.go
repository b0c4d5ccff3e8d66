package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"perf-manage/internal/model"
)

// SubmissionRepository stores the team submissions a project head reviews.
type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Reset(ctx context.Context, ownerID uint, subs []model.Submission) error {
	if err := replaceOwned(ctx, r.db, &model.Submission{}, ownerID, &subs, len(subs)); err != nil {
		return fmt.Errorf("reset submissions: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) ListByStatus(ctx context.Context, ownerID uint, status model.SubmissionStatus) ([]model.Submission, error) {
	var subs []model.Submission
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND status = ?", ownerID, status).
		Order("position ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubmissionRepository) CountByStatus(ctx context.Context, ownerID uint, status model.SubmissionStatus) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Submission{}).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, ownerID uint, id int64) (*model.Submission, error) {
	var sub model.Submission
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// SetStatus overwrites the submission status whatever it was before.
func (r *SubmissionRepository) SetStatus(ctx context.Context, sub *model.Submission, status model.SubmissionStatus) error {
	if err := r.db.WithContext(ctx).Model(&model.Submission{}).
		Where("owner_id = ? AND id = ?", sub.OwnerID, sub.ID).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	sub.Status = status
	return nil
}
