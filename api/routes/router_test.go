package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/reconcile-backend/internal/accounts"
	"github.com/sellerdesk/reconcile-backend/internal/ingest"
	"github.com/sellerdesk/reconcile-backend/internal/reconcile"
	"github.com/sellerdesk/reconcile-backend/internal/returns"
	"github.com/sellerdesk/reconcile-backend/internal/statistics"
	"github.com/sellerdesk/reconcile-backend/internal/weekly"
	"github.com/sellerdesk/reconcile-backend/pkg/config"
	"github.com/sellerdesk/reconcile-backend/pkg/db/models"
	"github.com/sellerdesk/reconcile-backend/pkg/enums"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubIngest struct{}

func (stubIngest) UploadOrders(ctx context.Context, filename string, file io.Reader) (*ingest.UploadSummary, error) {
	return &ingest.UploadSummary{Platform: enums.PlatformNoon, RowsParsed: 1, RowsStored: 1}, nil
}

func (stubIngest) UploadCollections(ctx context.Context, filename string, file io.Reader) (*ingest.UploadSummary, error) {
	return &ingest.UploadSummary{Platform: enums.PlatformNoon}, nil
}

type stubReconcile struct{}

func (stubReconcile) Reconcile(ctx context.Context) (*reconcile.Result, error) {
	return &reconcile.Result{TotalNetProfit: decimal.Zero}, nil
}

type stubStats struct{}

func (stubStats) Stats(ctx context.Context) (*statistics.Stats, error) {
	return &statistics.Stats{
		TotalOrders: 7,
		Platforms: []statistics.PlatformStats{
			{Platform: enums.PlatformAmazon, OrderCount: 4},
		},
	}, nil
}

type stubAccounts struct{}

func (stubAccounts) Create(ctx context.Context, input accounts.UpsertInput) (*models.Account, error) {
	return &models.Account{Platform: input.Platform, AccountName: input.AccountName}, nil
}

func (stubAccounts) Update(ctx context.Context, input accounts.UpsertInput) (*models.Account, error) {
	return &models.Account{}, nil
}

func (stubAccounts) Delete(ctx context.Context, platform enums.Platform, accountName string) error {
	return nil
}

func (stubAccounts) Get(ctx context.Context, platform enums.Platform, accountName string) (*models.Account, error) {
	return &models.Account{}, nil
}

func (stubAccounts) List(ctx context.Context) ([]accounts.AccountWithUsage, error) {
	return nil, nil
}

type stubReturns struct{}

func (stubReturns) AddScan(ctx context.Context, trackingID string) (*returns.ScanResult, error) {
	return &returns.ScanResult{Outcome: enums.ScanOutcomeInserted, TrackingID: trackingID}, nil
}

func (stubReturns) List(ctx context.Context, limit int) ([]models.ReturnScan, error) {
	return nil, nil
}

type stubWeekly struct{}

func (stubWeekly) StartNewWeek(ctx context.Context) (*weekly.ResetSummary, error) {
	return &weekly.ResetSummary{}, nil
}

func (stubWeekly) ResetDatabase(ctx context.Context) (*weekly.ResetSummary, error) {
	return &weekly.ResetSummary{}, nil
}

func (stubWeekly) ListReports(ctx context.Context, limit int) ([]models.WeeklyReport, error) {
	return nil, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Files.MaxUploadMB = 10

	return NewRouter(
		cfg, nil, stubPinger{}, nil,
		stubIngest{}, stubReconcile{}, stubStats{},
		stubAccounts{}, stubReturns{}, stubWeekly{},
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Recon-Env"))
}

func TestStatsRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data statistics.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 7, envelope.Data.TotalOrders)
}

func TestPlatformBreakdownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/platforms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []statistics.PlatformStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, enums.PlatformAmazon, envelope.Data[0].Platform)
}

func TestReturnScanRoute(t *testing.T) {
	router := newTestRouter()

	body := strings.NewReader(`{"tracking_id":"TRK-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/returns/scan", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inserted")
}

func TestReturnScanRouteRejectsMissingTracking(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/returns/scan", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
