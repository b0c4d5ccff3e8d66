package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"perf-manage/internal/model"
)

// KPIRepository stores KPI catalogs.
type KPIRepository struct {
	db *gorm.DB
}

func NewKPIRepository(db *gorm.DB) *KPIRepository {
	return &KPIRepository{db: db}
}

func (r *KPIRepository) Reset(ctx context.Context, ownerID uint, kpis []model.KPI) error {
	if err := replaceOwned(ctx, r.db, &model.KPI{}, ownerID, &kpis, len(kpis)); err != nil {
		return fmt.Errorf("reset kpis: %w", err)
	}
	return nil
}

func (r *KPIRepository) List(ctx context.Context, ownerID uint) ([]model.KPI, error) {
	var kpis []model.KPI
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("position ASC").Find(&kpis).Error; err != nil {
		return nil, err
	}
	return kpis, nil
}

func (r *KPIRepository) CountByStatus(ctx context.Context, ownerID uint, status model.KPIStatus) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.KPI{}).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *KPIRepository) FindByID(ctx context.Context, ownerID uint, id int64) (*model.KPI, error) {
	var kpi model.KPI
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&kpi).Error; err != nil {
		return nil, err
	}
	return &kpi, nil
}

// Append stores kpi after every existing one, bumping its id until it is free.
func (r *KPIRepository) Append(ctx context.Context, kpi *model.KPI) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := uniqueID(tx, &model.KPI{}, kpi.OwnerID, kpi.ID)
		if err != nil {
			return err
		}
		kpi.ID = id

		var maxPos sql.NullInt64
		if err := tx.Model(&model.KPI{}).Where("owner_id = ?", kpi.OwnerID).
			Select("MAX(position)").Row().Scan(&maxPos); err != nil {
			return err
		}
		kpi.Position = 0
		if maxPos.Valid {
			kpi.Position = int(maxPos.Int64) + 1
		}
		return tx.Create(kpi).Error
	})
	if err != nil {
		return fmt.Errorf("create kpi: %w", err)
	}
	return nil
}

// Replace overwrites the stored fields of kpi, keeping its place in the list.
func (r *KPIRepository) Replace(ctx context.Context, kpi *model.KPI) error {
	res := r.db.WithContext(ctx).Model(&model.KPI{}).
		Where("owner_id = ? AND id = ?", kpi.OwnerID, kpi.ID).
		Updates(map[string]interface{}{
			"name":        kpi.Name,
			"description": kpi.Description,
			"role":        kpi.Role,
			"status":      kpi.Status,
		})
	if res.Error != nil {
		return fmt.Errorf("update kpi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *KPIRepository) Delete(ctx context.Context, ownerID uint, id int64) error {
	res := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).Delete(&model.KPI{})
	if res.Error != nil {
		return fmt.Errorf("delete kpi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
