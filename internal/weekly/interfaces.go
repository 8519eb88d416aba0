package weekly

import (
	"context"

	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
)

// Repository covers the destructive week-boundary operations plus the
// report archive.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CountOrders(ctx context.Context) (int64, error)
	CountCollections(ctx context.Context) (int64, error)
	CountReturnScans(ctx context.Context) (int64, error)

	DeleteAllOrders(ctx context.Context) error
	DeleteAllCollections(ctx context.Context) error
	DeleteAllReturnScans(ctx context.Context) error

	CreateReport(ctx context.Context, report *models.WeeklyReport) error
	ListReports(ctx context.Context, limit int) ([]models.WeeklyReport, error)
}
