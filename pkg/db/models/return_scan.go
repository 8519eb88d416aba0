package models

import "time"

// ReturnScan is one entry in the append-only return-intake log. The
// unique index on tracking_id is what turns a repeated scan into a
// duplicate result instead of a second row.
type ReturnScan struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TrackingID string    `gorm:"column:tracking_id;not null;uniqueIndex:idx_return_scans_tracking"`
	ScannedAt  time.Time `gorm:"column:scanned_at;not null"`
}
