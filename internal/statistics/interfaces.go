package statistics

import (
	"context"

	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
)

// Repository exposes the reads the dashboard aggregates over. The row
// volume is one week of uploads, so aggregation happens in Go rather
// than in dialect-specific SQL.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// Snapshot reads orders and collections inside one transaction so a
	// reconcile commit cannot land between the two reads.
	Snapshot(ctx context.Context) ([]models.Order, []models.Collection, error)
}
