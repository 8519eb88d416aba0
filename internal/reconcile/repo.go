package reconcile

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reconciliation repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListUnlinked(ctx context.Context) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.WithContext(ctx).
		Where("linked = ?", false).
		Order("created_at ASC").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *repository) FindOrdersByTracking(ctx context.Context, platform enums.Platform, trackingID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("platform = ? AND tracking_id = ?", platform, trackingID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) FindAccount(ctx context.Context, platform enums.Platform, accountName string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("platform = ? AND account_name = ?", platform, accountName).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) SaveOrderFinancials(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"amount_collected":  order.AmountCollected,
			"cost":              order.Cost,
			"expected_revenue":  order.ExpectedRevenue,
			"commission_amount": order.CommissionAmount,
			"tax_amount":        order.TaxAmount,
			"net_profit":        order.NetProfit,
			"reconcile_warning": order.ReconcileWarning,
			"reconciled_at":     order.ReconciledAt,
		}).Error
}

func (r *repository) FlagOrders(ctx context.Context, orderIDs []uuid.UUID, warning enums.ReconcileWarning) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id IN ?", orderIDs).
		Update("reconcile_warning", string(warning)).Error
}

func (r *repository) MarkCollectionLinked(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Where("id = ?", collection.ID).
		Updates(map[string]any{
			"linked":   true,
			"order_id": collection.OrderID,
		}).Error
}
