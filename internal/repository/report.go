package repository

import (
	"context"
	"errors"

	"rewear/internal/cache"
	"rewear/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for listing reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) (newCount int, err error)
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create files a report and bumps the item's report count in one
// transaction, returning the item's new count so the caller can apply the
// flag threshold. A second report from the same user on the same item is a
// validation error.
func (r *reportRepository) Create(ctx context.Context, report *models.Report) (int, error) {
	var newCount int

	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Report{}).
			Where("reporter_id = ? AND item_id = ?", report.ReporterID, report.ItemID).
			Count(&existing).Error; err != nil {
			return models.NewInternalError(err)
		}
		if existing > 0 {
			return models.NewValidationError("You have already reported this item")
		}

		if err := tx.Create(report).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewValidationError("You have already reported this item")
			}
			return models.NewInternalError(err)
		}

		if err := tx.Model(&models.Item{}).
			Where("id = ?", report.ItemID).
			UpdateColumn("report_count", gorm.Expr("report_count + 1")).Error; err != nil {
			return models.NewInternalError(err)
		}

		var item models.Item
		if err := tx.Select("report_count").First(&item, report.ItemID).Error; err != nil {
			return models.NewInternalError(err)
		}
		newCount = item.ReportCount
		return nil
	})

	if txErr != nil {
		return 0, txErr
	}
	cache.InvalidateItem(ctx, report.ItemID)
	return newCount, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Item").
		First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Item")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var reports []models.Report
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Report", id)
	}
	return nil
}
