package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func setupIngestTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  platform TEXT NOT NULL,
  order_number TEXT NOT NULL,
  tracking_id TEXT,
  account_name TEXT NOT NULL DEFAULT '',
  order_date DATETIME,
  product_total NUMERIC NOT NULL DEFAULT 0,
  shipping_charged NUMERIC NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL DEFAULT 1,
  status TEXT NOT NULL DEFAULT 'pending',
  cost NUMERIC,
  expected_revenue NUMERIC,
  commission_amount NUMERIC,
  tax_amount NUMERIC,
  net_profit NUMERIC,
  amount_collected NUMERIC,
  reconcile_warning TEXT,
  reconciled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (platform, order_number)
);`
	collections := `
CREATE TABLE IF NOT EXISTS collections (
  id TEXT PRIMARY KEY,
  platform TEXT NOT NULL,
  tracking_id TEXT NOT NULL,
  amount_collected NUMERIC NOT NULL DEFAULT 0,
  collection_date DATETIME,
  linked INTEGER NOT NULL DEFAULT 0,
  order_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(collections).Error)
	require.NoError(t, db.Exec(`DELETE FROM orders`).Error)
	require.NoError(t, db.Exec(`DELETE FROM collections`).Error)
	return db
}
