package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/reconcile-backend/pkg/enums"
)

// Account holds the per-seller-account cost model used when computing an
// order's financial breakdown. Deleting an account never rewrites orders
// already reconciled with its parameters; those figures are a frozen
// snapshot.
type Account struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Platform              enums.Platform  `gorm:"column:platform;type:text;not null;uniqueIndex:idx_accounts_platform_name"`
	AccountName           string          `gorm:"column:account_name;not null;uniqueIndex:idx_accounts_platform_name"`
	FixedShippingCost     decimal.Decimal `gorm:"column:fixed_shipping_cost;type:numeric(12,2);not null"`
	ClientShippingCost    decimal.Decimal `gorm:"column:client_shipping_cost;type:numeric(12,2);not null"`
	PaymentCommissionRate decimal.Decimal `gorm:"column:payment_commission_rate;type:numeric(6,3);not null"`
	TaxRate               decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,3);not null"`
	CostIncludesTax       bool            `gorm:"column:cost_includes_tax;not null;default:false"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
