package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
)

type fakeIngestRepo struct {
	orders      []models.Order
	collections []models.Collection
	failWith    error
}

func (f *fakeIngestRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeIngestRepo) UpsertOrders(ctx context.Context, orders []models.Order) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.orders = append(f.orders, orders...)
	return len(orders), nil
}

func (f *fakeIngestRepo) InsertCollections(ctx context.Context, collections []models.Collection) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	// Mirrors the repository contract: exact repeats are skipped.
	inserted := 0
	for _, c := range collections {
		key := string(c.Platform) + "|" + c.TrackingID + "|" + c.AmountCollected.String()
		duplicate := false
		for _, have := range f.collections {
			if string(have.Platform)+"|"+have.TrackingID+"|"+have.AmountCollected.String() == key {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		f.collections = append(f.collections, c)
		inserted++
	}
	return inserted, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestServiceUploadOrders(t *testing.T) {
	repo := &fakeIngestRepo{}
	svc, err := NewService(repo, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	csv := strings.Join([]string{
		"order_nr,awb_nr,total_price,shipping_fee,quantity,order_status",
		"N-1,AWB-1,100.00,5.00,1,delivered",
		",AWB-2,50.00,0,1,shipped",
	}, "\n")

	summary, err := svc.UploadOrders(context.Background(), "noon-week.csv", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, enums.PlatformNoon, summary.Platform)
	assert.Equal(t, 2, summary.RowsParsed)
	assert.Equal(t, 1, summary.RowsStored)
	require.Len(t, summary.RowErrors, 1)
	require.Len(t, repo.orders, 1)
	assert.Equal(t, "N-1", repo.orders[0].OrderNumber)
}

func TestServiceUploadOrdersEmptyFile(t *testing.T) {
	svc, err := NewService(&fakeIngestRepo{}, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	csv := "order_nr,awb_nr,total_price\n"
	_, err = svc.UploadOrders(context.Background(), "noon.csv", strings.NewReader(csv))
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceUploadCollections(t *testing.T) {
	repo := &fakeIngestRepo{}
	svc, err := NewService(repo, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	csv := strings.Join([]string{
		"ref no,cod amount,cod charges,payment date",
		"SM-1,80.00,5.00,2026-08-09",
	}, "\n")

	summary, err := svc.UploadCollections(context.Background(), "smsa.csv", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, enums.PlatformSMSA, summary.Platform)
	assert.Equal(t, 1, summary.RowsStored)
	require.Len(t, repo.collections, 1)
	assert.True(t, repo.collections[0].AmountCollected.Equal(dec(t, "75.00")))
}

func TestServiceUploadCollectionsTwiceReportsDuplicates(t *testing.T) {
	repo := &fakeIngestRepo{}
	svc, err := NewService(repo, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	csv := strings.Join([]string{
		"ref no,cod amount,cod charges,payment date",
		"SM-1,80.00,5.00,2026-08-09",
		"SM-2,60.00,5.00,2026-08-09",
	}, "\n")

	first, err := svc.UploadCollections(context.Background(), "smsa.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, first.RowsStored)
	assert.Equal(t, 0, first.RowsDuplicate)

	second, err := svc.UploadCollections(context.Background(), "smsa.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, second.RowsStored)
	assert.Equal(t, 2, second.RowsDuplicate)
	assert.Len(t, repo.collections, 2)
}

func TestServiceUploadUnknownPlatform(t *testing.T) {
	svc, err := NewService(&fakeIngestRepo{}, fakeTxRunner{}, nil, nil)
	require.NoError(t, err)

	_, err = svc.UploadOrders(context.Background(), "unknown.csv", strings.NewReader("a,b\n1,2\n"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnknownPlatform, typed.Code())
}
