package ingest

import (
	"context"

	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
)

// Repository persists parsed upload rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// UpsertOrders inserts new orders and refreshes the non-financial
	// columns of ones already present under the same (platform, order
	// number) key. A batch repeating a key collapses to one row, last
	// line wins. Returns how many rows were written.
	UpsertOrders(ctx context.Context, orders []models.Order) (int, error)

	// InsertCollections appends collection rows, skipping ones already
	// stored with the same platform, tracking id, amount and date. A
	// statement can still legitimately repeat a tracking id with a
	// different amount or date. Returns how many rows were inserted.
	InsertCollections(ctx context.Context, collections []models.Collection) (int, error)
}
