package controllers

import (
	"net/http"

	"github.com/sellerdesk/reconcile-backend/api/responses"
	"github.com/sellerdesk/reconcile-backend/api/validators"
	"github.com/sellerdesk/reconcile-backend/internal/returns"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
)

type returnScanBody struct {
	TrackingID string `json:"tracking_id" validate:"required,min=1,max=128"`
}

// ReturnScan registers a scanned return parcel. A repeat scan answers
// with the duplicate outcome and the original timestamp, still 200.
func ReturnScan(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body returnScanBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.AddScan(ctx, body.TrackingID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ReturnScanList lists the most recent scans, newest first.
func ReturnScanList(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		scans, err := svc.List(ctx, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, scans)
	}
}
