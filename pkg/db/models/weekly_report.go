package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WeeklyReport is the KPI snapshot persisted when a week is closed out.
// Reports survive every reset operation; only the transactional tables
// are cleared.
type WeeklyReport struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Label            string          `gorm:"column:label;not null"`
	WeekNumber       int             `gorm:"column:week_number;not null"`
	Year             int             `gorm:"column:year;not null"`
	TotalOrders      int64           `gorm:"column:total_orders;not null"`
	TotalCollections int64           `gorm:"column:total_collections;not null"`
	TotalExpected    decimal.Decimal `gorm:"column:total_expected;type:numeric(14,2);not null"`
	TotalCollected   decimal.Decimal `gorm:"column:total_collected;type:numeric(14,2);not null"`
	NetProfit        decimal.Decimal `gorm:"column:net_profit;type:numeric(14,2);not null"`
	CollectionRate   decimal.Decimal `gorm:"column:collection_rate;type:numeric(6,2);not null"`
	PaidCount        int64           `gorm:"column:paid_count;not null"`
	UnpaidCount      int64           `gorm:"column:unpaid_count;not null"`
	PartialCount     int64           `gorm:"column:partial_count;not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}
