package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/reconcile-backend/pkg/enums"
)

// Collection is one payment-settlement record from a marketplace
// collection export. It stays unlinked until reconciliation finds an
// order on the same platform carrying the same tracking id; unlinked rows
// are retried on every reconciliation pass.
type Collection struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Platform        enums.Platform  `gorm:"column:platform;type:text;not null;index"`
	TrackingID      string          `gorm:"column:tracking_id;not null;index"`
	AmountCollected decimal.Decimal `gorm:"column:amount_collected;type:numeric(12,2);not null"`
	CollectionDate  *time.Time      `gorm:"column:collection_date"`
	Linked          bool            `gorm:"column:linked;not null;default:false;index"`
	OrderID         *uuid.UUID      `gorm:"column:order_id;type:uuid"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
