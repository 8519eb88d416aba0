package reconcile

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
)

// Repository exposes the persistence surface reconciliation needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// ListUnlinked returns collections no reconciliation pass has matched
	// yet, oldest first.
	ListUnlinked(ctx context.Context) ([]models.Collection, error)

	// FindOrdersByTracking returns the orders on a platform carrying the
	// given tracking id, most recently created first.
	FindOrdersByTracking(ctx context.Context, platform enums.Platform, trackingID string) ([]models.Order, error)

	// FindAccount fetches the cost model for a seller account. gorm's
	// ErrRecordNotFound signals a missing model.
	FindAccount(ctx context.Context, platform enums.Platform, accountName string) (*models.Account, error)

	// SaveOrderFinancials writes the reconciliation outcome onto the order.
	SaveOrderFinancials(ctx context.Context, order *models.Order) error

	// FlagOrders stamps a warning tag onto orders passed over during
	// matching, leaving their financial columns untouched.
	FlagOrders(ctx context.Context, orderIDs []uuid.UUID, warning enums.ReconcileWarning) error

	// MarkCollectionLinked flags the collection as consumed by the order.
	MarkCollectionLinked(ctx context.Context, collection *models.Collection) error
}
