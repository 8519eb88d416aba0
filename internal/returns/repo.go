package returns

import (
	"context"

	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a returns repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, scan *models.ReturnScan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *repository) FindByTracking(ctx context.Context, trackingID string) (*models.ReturnScan, error) {
	var scan models.ReturnScan
	err := r.db.WithContext(ctx).
		Where("tracking_id = ?", trackingID).
		First(&scan).Error
	if err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]models.ReturnScan, error) {
	var scans []models.ReturnScan
	query := r.db.WithContext(ctx).Order("scanned_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&scans).Error; err != nil {
		return nil, err
	}
	return scans, nil
}
