package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/luphonix/retailops-backend/api/routes"
	"github.com/luphonix/retailops-backend/internal/accounting"
	"github.com/luphonix/retailops-backend/internal/discounts"
	"github.com/luphonix/retailops-backend/internal/inventory"
	"github.com/luphonix/retailops-backend/internal/notifications"
	"github.com/luphonix/retailops-backend/internal/orders"
	"github.com/luphonix/retailops-backend/internal/products"
	"github.com/luphonix/retailops-backend/internal/returns"
	"github.com/luphonix/retailops-backend/pkg/config"
	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/logger"
	"github.com/luphonix/retailops-backend/pkg/metrics"
	"github.com/luphonix/retailops-backend/pkg/migrate"
	"github.com/luphonix/retailops-backend/pkg/redis"
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, dbClient, logg); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	invMetrics := metrics.NewInventoryMetrics(registry)

	invRepo := inventory.NewRepository(dbClient.DB())
	engine, err := inventory.NewEngine(dbClient, invRepo, invMetrics)
	requireService(logg, "inventory engine", err)

	statsService, err := inventory.NewStatsService(invRepo)
	requireService(logg, "stats service", err)

	movementService, err := inventory.NewMovementService(engine, invRepo)
	requireService(logg, "movement service", err)

	accountingService, err := accounting.NewService(accounting.NewRepository(dbClient.DB()))
	requireService(logg, "accounting service", err)

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), dbClient, engine, invRepo, accountingService)
	requireService(logg, "product service", err)

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, engine, invRepo, logg)
	requireService(logg, "order service", err)

	discountService, err := discounts.NewService(discounts.NewRepository(dbClient.DB()), cfg.Credits)
	requireService(logg, "discount service", err)

	notifier, err := notifications.NewLogNotifier(logg)
	requireService(logg, "credit notifier", err)

	returnService, err := returns.NewService(
		returns.NewRepository(dbClient.DB()),
		dbClient,
		engine,
		orders.NewRepository(dbClient.DB()),
		invRepo,
		discountService,
		notifier,
		logg,
	)
	requireService(logg, "return service", err)

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
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			productService,
			orderService,
			returnService,
			discountService,
			movementService,
			statsService,
			accountingService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	ctx := logg.WithField(context.Background(), "service", name)
	logg.Error(ctx, "failed to construct service", err)
	os.Exit(1)
}
