package controllers

import (
	"net/http"

	"github.com/sellerdesk/reconcile-backend/api/responses"
	"github.com/sellerdesk/reconcile-backend/internal/reconcile"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
)

// RunReconciliation links pending collections to their orders and returns
// the pass summary. Safe to call repeatedly.
func RunReconciliation(svc reconcile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		result, err := svc.Reconcile(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
