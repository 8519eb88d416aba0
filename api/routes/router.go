package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sellerdesk/reconcile-backend/api/controllers"
	"github.com/sellerdesk/reconcile-backend/api/middleware"
	"github.com/sellerdesk/reconcile-backend/internal/accounts"
	"github.com/sellerdesk/reconcile-backend/internal/ingest"
	"github.com/sellerdesk/reconcile-backend/internal/reconcile"
	"github.com/sellerdesk/reconcile-backend/internal/returns"
	"github.com/sellerdesk/reconcile-backend/internal/statistics"
	"github.com/sellerdesk/reconcile-backend/internal/weekly"
	"github.com/sellerdesk/reconcile-backend/pkg/config"
	"github.com/sellerdesk/reconcile-backend/pkg/db"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
	"github.com/sellerdesk/reconcile-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	ingestService ingest.Service,
	reconcileService reconcile.Service,
	statsService statistics.Service,
	accountsService accounts.Service,
	returnsService returns.Service,
	weeklyService weekly.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/uploads", func(r chi.Router) {
			r.Post("/orders", controllers.UploadOrders(ingestService, cfg, logg))
			r.Post("/collections", controllers.UploadCollections(ingestService, cfg, logg))
		})

		r.Post("/reconcile", controllers.RunReconciliation(reconcileService, logg))
		r.Route("/stats", func(r chi.Router) {
			r.Get("/", controllers.DashboardStats(statsService, logg))
			r.Get("/platforms", controllers.PlatformBreakdown(statsService, logg))
			r.Get("/trend", controllers.WeeklyTrend(statsService, logg))
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", controllers.AccountList(accountsService, logg))
			r.Post("/", controllers.AccountCreate(accountsService, logg))
			r.Put("/{platform}/{accountName}", controllers.AccountUpdate(accountsService, logg))
			r.Delete("/{platform}/{accountName}", controllers.AccountDelete(accountsService, logg))
		})

		r.Route("/returns", func(r chi.Router) {
			r.Get("/", controllers.ReturnScanList(returnsService, logg))
			r.Post("/scan", controllers.ReturnScan(returnsService, logg))
		})

		r.Route("/weekly", func(r chi.Router) {
			r.Get("/reports", controllers.WeeklyReports(weeklyService, logg))
			r.Post("/start", controllers.StartNewWeek(weeklyService, logg))
			r.Post("/reset", controllers.ResetDatabase(weeklyService, logg))
		})
	})

	return r
}
