package weekly

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a weekly repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *repository) CountCollections(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Collection{}).Count(&count).Error
	return count, err
}

func (r *repository) CountReturnScans(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReturnScan{}).Count(&count).Error
	return count, err
}

func (r *repository) DeleteAllOrders(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Order{}).Error
}

func (r *repository) DeleteAllCollections(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Collection{}).Error
}

func (r *repository) DeleteAllReturnScans(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.ReturnScan{}).Error
}

func (r *repository) CreateReport(ctx context.Context, report *models.WeeklyReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *repository) ListReports(ctx context.Context, limit int) ([]models.WeeklyReport, error) {
	var reports []models.WeeklyReport
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
