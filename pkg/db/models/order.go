package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/reconcile-backend/pkg/enums"
)

// Order is one marketplace order line in the normalized schema. The
// parser creates it and owns every non-financial column; the financial
// columns are written exclusively by reconciliation and stay null until a
// matching collection has been linked.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Platform        enums.Platform    `gorm:"column:platform;type:text;not null;uniqueIndex:idx_orders_platform_order"`
	OrderNumber     string            `gorm:"column:order_number;not null;uniqueIndex:idx_orders_platform_order"`
	TrackingID      string            `gorm:"column:tracking_id;index"`
	AccountName     string            `gorm:"column:account_name;not null;default:''"`
	OrderDate       *time.Time        `gorm:"column:order_date"`
	ProductTotal    decimal.Decimal   `gorm:"column:product_total;type:numeric(12,2);not null"`
	ShippingCharged decimal.Decimal   `gorm:"column:shipping_charged;type:numeric(12,2);not null"`
	Quantity        int               `gorm:"column:quantity;not null;default:1"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`

	Cost             decimal.NullDecimal `gorm:"column:cost;type:numeric(12,2)"`
	ExpectedRevenue  decimal.NullDecimal `gorm:"column:expected_revenue;type:numeric(12,2)"`
	CommissionAmount decimal.NullDecimal `gorm:"column:commission_amount;type:numeric(12,2)"`
	TaxAmount        decimal.NullDecimal `gorm:"column:tax_amount;type:numeric(12,2)"`
	NetProfit        decimal.NullDecimal `gorm:"column:net_profit;type:numeric(12,2)"`
	AmountCollected  decimal.NullDecimal `gorm:"column:amount_collected;type:numeric(12,2)"`
	ReconcileWarning *string             `gorm:"column:reconcile_warning"`
	ReconciledAt     *time.Time          `gorm:"column:reconciled_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
