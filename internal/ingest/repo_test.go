package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
)

func TestUpsertOrdersInsertsNewRows(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	n, err := repo.UpsertOrders(ctx, []models.Order{
		{
			Platform:        enums.PlatformNoon,
			OrderNumber:     "N-1",
			TrackingID:      "AWB-1",
			ProductTotal:    dec(t, "100.00"),
			ShippingCharged: dec(t, "10.00"),
			Quantity:        1,
			Status:          enums.OrderStatusDelivered,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertOrdersPreservesFinancialColumns(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.UpsertOrders(ctx, []models.Order{{
		Platform:        enums.PlatformAmazon,
		OrderNumber:     "A-1",
		TrackingID:      "TRK-1",
		ProductTotal:    dec(t, "100.00"),
		ShippingCharged: dec(t, "10.00"),
		Quantity:        1,
		Status:          enums.OrderStatusPending,
	}})
	require.NoError(t, err)

	// Simulate a prior reconciliation pass writing the financials.
	now := time.Now().UTC()
	require.NoError(t, db.Model(&models.Order{}).
		Where("platform = ? AND order_number = ?", enums.PlatformAmazon, "A-1").
		Updates(map[string]any{
			"net_profit":    decimal.NewNullDecimal(dec(t, "42.00")),
			"reconciled_at": now,
		}).Error)

	// Re-uploading the same export must refresh parser-owned columns only.
	_, err = repo.UpsertOrders(ctx, []models.Order{{
		Platform:        enums.PlatformAmazon,
		OrderNumber:     "A-1",
		TrackingID:      "TRK-1-NEW",
		ProductTotal:    dec(t, "120.00"),
		ShippingCharged: dec(t, "10.00"),
		Quantity:        2,
		Status:          enums.OrderStatusDelivered,
	}})
	require.NoError(t, err)

	var stored models.Order
	require.NoError(t, db.
		Where("platform = ? AND order_number = ?", enums.PlatformAmazon, "A-1").
		First(&stored).Error)

	assert.Equal(t, "TRK-1-NEW", stored.TrackingID)
	assert.True(t, stored.ProductTotal.Equal(dec(t, "120.00")))
	assert.Equal(t, 2, stored.Quantity)
	assert.Equal(t, enums.OrderStatusDelivered, stored.Status)

	require.True(t, stored.NetProfit.Valid)
	assert.True(t, stored.NetProfit.Decimal.Equal(dec(t, "42.00")))
	require.NotNil(t, stored.ReconciledAt)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertOrdersSamePlatformDifferentNumbers(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.UpsertOrders(ctx, []models.Order{
		{Platform: enums.PlatformNoon, OrderNumber: "N-1", ProductTotal: decimal.Zero, ShippingCharged: decimal.Zero, Quantity: 1, Status: enums.OrderStatusPending},
		{Platform: enums.PlatformNoon, OrderNumber: "N-2", ProductTotal: decimal.Zero, ShippingCharged: decimal.Zero, Quantity: 1, Status: enums.OrderStatusPending},
		{Platform: enums.PlatformAmazon, OrderNumber: "N-1", ProductTotal: decimal.Zero, ShippingCharged: decimal.Zero, Quantity: 1, Status: enums.OrderStatusPending},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestUpsertOrdersCollapsesRepeatedOrderNumbers(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	// Multi-line orders repeat the order number within one export; the
	// batch collapses to one row and the last line wins.
	n, err := repo.UpsertOrders(ctx, []models.Order{
		{Platform: enums.PlatformNoon, OrderNumber: "N-1", ProductTotal: dec(t, "10.00"), ShippingCharged: decimal.Zero, Quantity: 1, Status: enums.OrderStatusPending},
		{Platform: enums.PlatformNoon, OrderNumber: "N-2", ProductTotal: dec(t, "20.00"), ShippingCharged: decimal.Zero, Quantity: 1, Status: enums.OrderStatusPending},
		{Platform: enums.PlatformNoon, OrderNumber: "N-1", ProductTotal: dec(t, "35.00"), ShippingCharged: decimal.Zero, Quantity: 2, Status: enums.OrderStatusShipped},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var stored models.Order
	require.NoError(t, db.
		Where("platform = ? AND order_number = ?", enums.PlatformNoon, "N-1").
		First(&stored).Error)
	assert.True(t, stored.ProductTotal.Equal(dec(t, "35.00")))
	assert.Equal(t, 2, stored.Quantity)
	assert.Equal(t, enums.OrderStatusShipped, stored.Status)
}

func TestInsertCollections(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	// The same tracking id with different amounts is two settlements, not
	// a duplicate.
	n, err := repo.InsertCollections(ctx, []models.Collection{
		{Platform: enums.PlatformTabby, TrackingID: "TB-1", AmountCollected: dec(t, "95.50")},
		{Platform: enums.PlatformTabby, TrackingID: "TB-1", AmountCollected: dec(t, "40.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var rows []models.Collection
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.False(t, row.Linked)
		assert.Nil(t, row.OrderID)
	}
}

func TestInsertCollectionsSkipsExactDuplicates(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	batch := []models.Collection{
		{Platform: enums.PlatformTabby, TrackingID: "TB-1", AmountCollected: dec(t, "95.50")},
		{Platform: enums.PlatformTabby, TrackingID: "TB-2", AmountCollected: dec(t, "40.00")},
	}

	n, err := repo.InsertCollections(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-uploading the same statement must not inflate the counts.
	n, err = repo.InsertCollections(ctx, []models.Collection{
		{Platform: enums.PlatformTabby, TrackingID: "TB-1", AmountCollected: dec(t, "95.50")},
		{Platform: enums.PlatformTabby, TrackingID: "TB-2", AmountCollected: dec(t, "40.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var count int64
	require.NoError(t, db.Model(&models.Collection{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
