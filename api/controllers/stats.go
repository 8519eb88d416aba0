package controllers

import (
	"net/http"

	"github.com/sellerdesk/reconcile-backend/api/responses"
	"github.com/sellerdesk/reconcile-backend/internal/statistics"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
)

// DashboardStats serves the aggregate view the dashboard renders.
func DashboardStats(svc statistics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		stats, err := svc.Stats(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// PlatformBreakdown serves only the per-marketplace slice of the stats.
func PlatformBreakdown(svc statistics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		stats, err := svc.Stats(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats.Platforms)
	}
}

// WeeklyTrend serves only the weekly collected-amount series.
func WeeklyTrend(svc statistics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		stats, err := svc.Stats(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats.WeeklyTrend)
	}
}
