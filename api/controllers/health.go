package controllers

import (
	"net/http"

	"github.com/sellerdesk/reconcile-backend/api/responses"
	"github.com/sellerdesk/reconcile-backend/pkg/config"
	"github.com/sellerdesk/reconcile-backend/pkg/db"
	pkgerrors "github.com/sellerdesk/reconcile-backend/pkg/errors"
	"github.com/sellerdesk/reconcile-backend/pkg/logger"
	"github.com/sellerdesk/reconcile-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Recon-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Recon-Env", cfg.App.Env)
		ctx := r.Context()

		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		if err := cache.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
