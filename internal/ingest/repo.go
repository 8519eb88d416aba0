package ingest

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an ingest repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// upsert refreshes only the columns the parser owns. The financial
// columns belong to reconciliation and must survive a re-upload of the
// same export.
var orderUpsertColumns = []string{
	"tracking_id", "account_name", "order_date",
	"product_total", "shipping_charged", "quantity", "status", "updated_at",
}

func (r *repository) UpsertOrders(ctx context.Context, orders []models.Order) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	// An export can repeat an order number across shipment lines. The
	// batch must collapse to one row per (platform, order_number) before
	// the multi-row upsert, or postgres rejects the statement; the last
	// line of the export wins.
	index := make(map[string]int, len(orders))
	deduped := make([]models.Order, 0, len(orders))
	for i := range orders {
		key := string(orders[i].Platform) + "|" + orders[i].OrderNumber
		if at, ok := index[key]; ok {
			deduped[at] = orders[i]
			continue
		}
		index[key] = len(deduped)
		deduped = append(deduped, orders[i])
	}

	for i := range deduped {
		if deduped[i].ID == uuid.Nil {
			deduped[i].ID = uuid.New()
		}
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}, {Name: "order_number"}},
			DoUpdates: clause.AssignmentColumns(orderUpsertColumns),
		}).
		Create(&deduped).Error
	if err != nil {
		return 0, err
	}
	return len(deduped), nil
}

func (r *repository) InsertCollections(ctx context.Context, collections []models.Collection) (int, error) {
	if len(collections) == 0 {
		return 0, nil
	}

	var existing []models.Collection
	err := r.db.WithContext(ctx).
		Where("platform = ?", collections[0].Platform).
		Find(&existing).Error
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[collectionKey(&existing[i])] = true
	}

	fresh := make([]models.Collection, 0, len(collections))
	for i := range collections {
		key := collectionKey(&collections[i])
		if seen[key] {
			continue
		}
		seen[key] = true
		if collections[i].ID == uuid.Nil {
			collections[i].ID = uuid.New()
		}
		fresh = append(fresh, collections[i])
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Create(&fresh).Error; err != nil {
		return 0, err
	}
	return len(fresh), nil
}

// collectionKey identifies a settlement row for duplicate suppression.
// Tracking id alone is not enough: a statement can legitimately repeat a
// tracking id with a different amount or date.
func collectionKey(c *models.Collection) string {
	date := ""
	if c.CollectionDate != nil {
		date = c.CollectionDate.UTC().Format("2006-01-02")
	}
	return string(c.Platform) + "|" + c.TrackingID + "|" + c.AmountCollected.Round(2).String() + "|" + date
}
