package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
)

type fakeReconcileRepo struct {
	collections []models.Collection
	orders      []models.Order
	accounts    []models.Account

	savedOrders       []models.Order
	flaggedOrders     map[uuid.UUID]enums.ReconcileWarning
	linkedCollections []models.Collection
}

func (f *fakeReconcileRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeReconcileRepo) ListUnlinked(ctx context.Context) ([]models.Collection, error) {
	var out []models.Collection
	for _, c := range f.collections {
		if !c.Linked {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeReconcileRepo) FindOrdersByTracking(ctx context.Context, platform enums.Platform, trackingID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.Platform == platform && o.TrackingID == trackingID {
			out = append(out, o)
		}
	}
	// most recent first
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeReconcileRepo) FindAccount(ctx context.Context, platform enums.Platform, accountName string) (*models.Account, error) {
	for i := range f.accounts {
		if f.accounts[i].Platform == platform && f.accounts[i].AccountName == accountName {
			return &f.accounts[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReconcileRepo) SaveOrderFinancials(ctx context.Context, order *models.Order) error {
	f.savedOrders = append(f.savedOrders, *order)
	return nil
}

func (f *fakeReconcileRepo) FlagOrders(ctx context.Context, orderIDs []uuid.UUID, warning enums.ReconcileWarning) error {
	if f.flaggedOrders == nil {
		f.flaggedOrders = make(map[uuid.UUID]enums.ReconcileWarning)
	}
	for _, id := range orderIDs {
		f.flaggedOrders[id] = warning
	}
	return nil
}

func (f *fakeReconcileRepo) MarkCollectionLinked(ctx context.Context, collection *models.Collection) error {
	f.linkedCollections = append(f.linkedCollections, *collection)
	for i := range f.collections {
		if f.collections[i].ID == collection.ID {
			f.collections[i].Linked = true
		}
	}
	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func mustDec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestReconcileComputesFinancials(t *testing.T) {
	orderID := uuid.New()
	repo := &fakeReconcileRepo{
		orders: []models.Order{{
			ID:              orderID,
			Platform:        enums.PlatformNoon,
			OrderNumber:     "N-1",
			TrackingID:      "AWB-1",
			AccountName:     "Flagship",
			ProductTotal:    mustDec(t, "100.00"),
			ShippingCharged: mustDec(t, "5.00"),
		}},
		collections: []models.Collection{{
			ID:              uuid.New(),
			Platform:        enums.PlatformNoon,
			TrackingID:      "AWB-1",
			AmountCollected: mustDec(t, "108.00"),
		}},
		accounts: []models.Account{{
			Platform:              enums.PlatformNoon,
			AccountName:           "Flagship",
			FixedShippingCost:     mustDec(t, "5.00"),
			ClientShippingCost:    mustDec(t, "2.00"),
			PaymentCommissionRate: mustDec(t, "3"),
			TaxRate:               mustDec(t, "1"),
			CostIncludesTax:       false,
		}},
	}

	svc, err := NewService(repo, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Linked)
	assert.Equal(t, 0, result.Remaining)
	assert.Empty(t, result.Warnings)

	require.Len(t, repo.savedOrders, 1)
	saved := repo.savedOrders[0]
	assert.True(t, saved.ExpectedRevenue.Decimal.Equal(mustDec(t, "105.00")), saved.ExpectedRevenue.Decimal.String())
	assert.True(t, saved.Cost.Decimal.Equal(mustDec(t, "7.00")), saved.Cost.Decimal.String())
	assert.True(t, saved.CommissionAmount.Decimal.Equal(mustDec(t, "3.24")), saved.CommissionAmount.Decimal.String())
	assert.True(t, saved.TaxAmount.Decimal.Equal(mustDec(t, "1.05")), saved.TaxAmount.Decimal.String())
	assert.True(t, saved.NetProfit.Decimal.Equal(mustDec(t, "96.71")), saved.NetProfit.Decimal.String())
	assert.True(t, saved.AmountCollected.Decimal.Equal(mustDec(t, "108.00")))
	assert.Nil(t, saved.ReconcileWarning)
	require.NotNil(t, saved.ReconciledAt)

	require.Len(t, repo.linkedCollections, 1)
	require.NotNil(t, repo.linkedCollections[0].OrderID)
	assert.Equal(t, orderID, *repo.linkedCollections[0].OrderID)

	assert.True(t, result.TotalNetProfit.Equal(mustDec(t, "96.71")))
}

func TestReconcileTaxOnCostWhenModelSaysSo(t *testing.T) {
	repo := &fakeReconcileRepo{
		orders: []models.Order{{
			ID:              uuid.New(),
			Platform:        enums.PlatformAmazon,
			TrackingID:      "TRK-1",
			AccountName:     "Main",
			ProductTotal:    mustDec(t, "200.00"),
			ShippingCharged: mustDec(t, "0"),
		}},
		collections: []models.Collection{{
			ID:              uuid.New(),
			Platform:        enums.PlatformAmazon,
			TrackingID:      "TRK-1",
			AmountCollected: mustDec(t, "200.00"),
		}},
		accounts: []models.Account{{
			Platform:           enums.PlatformAmazon,
			AccountName:        "Main",
			FixedShippingCost:  mustDec(t, "10.00"),
			ClientShippingCost: mustDec(t, "10.00"),
			TaxRate:            mustDec(t, "15"),
			CostIncludesTax:    true,
		}},
	}

	svc, err := NewService(repo, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	_, err = svc.Reconcile(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.savedOrders, 1)
	// tax base is the 20.00 cost, not the 200.00 revenue
	assert.True(t, repo.savedOrders[0].TaxAmount.Decimal.Equal(mustDec(t, "3.00")))
}

func TestReconcileMissingAccountModel(t *testing.T) {
	repo := &fakeReconcileRepo{
		orders: []models.Order{{
			ID:              uuid.New(),
			Platform:        enums.PlatformTabby,
			TrackingID:      "TB-1",
			AccountName:     "NoModel",
			ProductTotal:    mustDec(t, "50.00"),
			ShippingCharged: mustDec(t, "0"),
		}},
		collections: []models.Collection{{
			ID:              uuid.New(),
			Platform:        enums.PlatformTabby,
			TrackingID:      "TB-1",
			AmountCollected: mustDec(t, "50.00"),
		}},
	}

	svc, err := NewService(repo, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Linked)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, enums.WarningMissingAccountModel, result.Warnings[0].Warning)

	// Zero model: everything collected is profit.
	require.Len(t, repo.savedOrders, 1)
	saved := repo.savedOrders[0]
	assert.True(t, saved.NetProfit.Decimal.Equal(mustDec(t, "50.00")))
	require.NotNil(t, saved.ReconcileWarning)
	assert.Equal(t, "missing_account_model", *saved.ReconcileWarning)
}

func TestReconcileAmbiguousTrackingMostRecentWins(t *testing.T) {
	older := uuid.New()
	newer := uuid.New()
	now := time.Now().UTC()

	repo := &fakeReconcileRepo{
		orders: []models.Order{
			{
				ID: older, Platform: enums.PlatformNoon, TrackingID: "AWB-X",
				AccountName: "A", ProductTotal: mustDec(t, "10.00"),
				ShippingCharged: decimal.Zero, CreatedAt: now.Add(-time.Hour),
			},
			{
				ID: newer, Platform: enums.PlatformNoon, TrackingID: "AWB-X",
				AccountName: "A", ProductTotal: mustDec(t, "20.00"),
				ShippingCharged: decimal.Zero, CreatedAt: now,
			},
		},
		collections: []models.Collection{{
			ID:              uuid.New(),
			Platform:        enums.PlatformNoon,
			TrackingID:      "AWB-X",
			AmountCollected: mustDec(t, "20.00"),
		}},
	}

	svc, err := NewService(repo, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.savedOrders, 1)
	assert.Equal(t, newer, repo.savedOrders[0].ID)

	warnings := make([]enums.ReconcileWarning, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		warnings = append(warnings, w.Warning)
	}
	assert.Contains(t, warnings, enums.WarningAmbiguousTrackingID)

	// The passed-over order carries the tag at rest too.
	assert.Equal(t, enums.WarningAmbiguousTrackingID, repo.flaggedOrders[older])
	_, winnerFlagged := repo.flaggedOrders[newer]
	assert.False(t, winnerFlagged)
}

func TestReconcileUnmatchedCollectionStaysUnlinked(t *testing.T) {
	repo := &fakeReconcileRepo{
		collections: []models.Collection{{
			ID:              uuid.New(),
			Platform:        enums.PlatformSMSA,
			TrackingID:      "SM-404",
			AmountCollected: mustDec(t, "30.00"),
		}},
	}

	svc, err := NewService(repo, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Linked)
	assert.Equal(t, 1, result.Remaining)
	assert.Empty(t, repo.savedOrders)
	assert.False(t, repo.collections[0].Linked)
}

func TestReconcileIsIdempotent(t *testing.T) {
	repo := &fakeReconcileRepo{
		orders: []models.Order{{
			ID:              uuid.New(),
			Platform:        enums.PlatformNoon,
			TrackingID:      "AWB-1",
			ProductTotal:    mustDec(t, "10.00"),
			ShippingCharged: decimal.Zero,
		}},
		collections: []models.Collection{{
			ID:              uuid.New(),
			Platform:        enums.PlatformNoon,
			TrackingID:      "AWB-1",
			AmountCollected: mustDec(t, "10.00"),
		}},
	}

	svc, err := NewService(repo, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	first, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Linked)

	second, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 0, second.Linked)
	require.Len(t, repo.savedOrders, 1)
}
