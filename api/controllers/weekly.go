package controllers

import (
	"net/http"

	"github.com/sellerdesk/reconcile-backend/api/responses"
	"github.com/sellerdesk/reconcile-backend/api/validators"
	"github.com/sellerdesk/reconcile-backend/internal/weekly"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
)

// StartNewWeek archives the closing week's KPIs and clears the
// transactional tables atomically.
func StartNewWeek(svc weekly.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		summary, err := svc.StartNewWeek(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// ResetDatabase clears orders and collections without archiving a report.
func ResetDatabase(svc weekly.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		summary, err := svc.ResetDatabase(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// WeeklyReports lists archived reports, newest first.
func WeeklyReports(svc weekly.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 52, 1, 520)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		reports, err := svc.ListReports(ctx, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, reports)
	}
}
