package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/sellerdesk/reconcile-backend/api/routes"
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

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.App.AutoMigrate {
		if err := dbClient.AutoMigrate(context.Background(), logg); err != nil {
			logg.Error(context.Background(), "failed to migrate schema", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()

	ingestService, err := ingest.NewService(ingest.NewRepository(conn), dbClient, redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ingest service", err)
		os.Exit(1)
	}
	reconcileService, err := reconcile.NewService(reconcile.NewRepository(conn), dbClient, redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile service", err)
		os.Exit(1)
	}
	statsService, err := statistics.NewService(statistics.NewRepository(conn), redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create statistics service", err)
		os.Exit(1)
	}
	accountsService, err := accounts.NewService(accounts.NewRepository(conn), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}
	returnsService, err := returns.NewService(returns.NewRepository(conn), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create returns service", err)
		os.Exit(1)
	}
	weeklyService, err := weekly.NewService(weekly.NewRepository(conn), statsService, dbClient, redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create weekly service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient,
			ingestService, reconcileService, statsService,
			accountsService, returnsService, weeklyService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
