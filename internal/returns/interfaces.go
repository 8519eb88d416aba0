package returns

import (
	"context"

	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
)

// Repository persists the warehouse return-scan register.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// Insert appends a scan. A unique constraint on tracking_id rejects
	// repeats; db.IsUniqueViolation identifies that failure.
	Insert(ctx context.Context, scan *models.ReturnScan) error

	// FindByTracking fetches the scan already registered for a tracking id.
	FindByTracking(ctx context.Context, trackingID string) (*models.ReturnScan, error)

	// List returns the most recent scans, newest first.
	List(ctx context.Context, limit int) ([]models.ReturnScan, error)
}
