package statistics

import (
	"context"

	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a statistics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Snapshot(ctx context.Context) ([]models.Order, []models.Collection, error) {
	var orders []models.Order
	var collections []models.Collection
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("created_at ASC").Find(&orders).Error; err != nil {
			return err
		}
		return tx.Order("created_at ASC").Find(&collections).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return orders, collections, nil
}
