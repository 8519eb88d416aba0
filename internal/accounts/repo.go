package accounts

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

// NewRepository builds an accounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("platform = ? AND account_name = ?", account.Platform, account.AccountName).
		Updates(map[string]any{
			"fixed_shipping_cost":     account.FixedShippingCost,
			"client_shipping_cost":    account.ClientShippingCost,
			"payment_commission_rate": account.PaymentCommissionRate,
			"tax_rate":                account.TaxRate,
			"cost_includes_tax":       account.CostIncludesTax,
		}).Error
}

func (r *repository) Delete(ctx context.Context, platform enums.Platform, accountName string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("platform = ? AND account_name = ?", platform, accountName).
		Delete(&models.Account{})
	return result.RowsAffected, result.Error
}

func (r *repository) Find(ctx context.Context, platform enums.Platform, accountName string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("platform = ? AND account_name = ?", platform, accountName).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Order("platform ASC, account_name ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repository) CountOrders(ctx context.Context, platform enums.Platform, accountName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("platform = ? AND account_name = ?", platform, accountName).
		Count(&count).Error
	return count, err
}
