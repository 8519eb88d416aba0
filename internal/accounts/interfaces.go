package accounts

import (
	"context"

	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
)

// Repository persists the per-seller-account cost models.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, platform enums.Platform, accountName string) (int64, error)
	Find(ctx context.Context, platform enums.Platform, accountName string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)

	// CountOrders reports how many orders reference the account, used by
	// the listing so operators can see which models are actually in play.
	CountOrders(ctx context.Context, platform enums.Platform, accountName string) (int64, error)
}
