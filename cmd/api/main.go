package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jvaldezcruz/assetdesk-backend/api/controllers"
	"github.com/jvaldezcruz/assetdesk-backend/api/routes"
	"github.com/jvaldezcruz/assetdesk-backend/internal/approvals"
	"github.com/jvaldezcruz/assetdesk-backend/internal/assignments"
	"github.com/jvaldezcruz/assetdesk-backend/internal/audit"
	"github.com/jvaldezcruz/assetdesk-backend/internal/capacity"
	"github.com/jvaldezcruz/assetdesk-backend/internal/catalog"
	"github.com/jvaldezcruz/assetdesk-backend/internal/employees"
	"github.com/jvaldezcruz/assetdesk-backend/internal/items"
	"github.com/jvaldezcruz/assetdesk-backend/internal/timeline"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/config"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/db"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/logger"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/metrics"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/migrate"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/outbox"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/pubsub"
	"github.com/jvaldezcruz/assetdesk-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
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

	// The API never publishes directly; the broker connection only feeds the
	// readiness probe, so it stays optional.
	var brokerP controllers.Pinger
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub client", err)
			}
		}()
		brokerP = pubsubClient
	}

	gormDB := dbClient.DB()

	auditService, err := audit.NewService(audit.NewRepository(gormDB))
	requireService(logg, "audit", err)

	timelineService, err := timeline.NewService(timeline.NewRepository(gormDB))
	requireService(logg, "timeline", err)

	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)
	engineMetrics := metrics.NewEngineMetrics(prometheus.DefaultRegisterer)

	employeeService, err := employees.NewService(employees.NewRepository(gormDB), auditService, logg)
	requireService(logg, "employees", err)

	catalogService, err := catalog.NewService(dbClient, catalog.NewRepository(gormDB), auditService, outboxService, logg)
	requireService(logg, "catalog", err)

	itemService, err := items.NewService(dbClient, items.NewRepository(gormDB), auditService, outboxService, logg)
	requireService(logg, "items", err)

	capacityService, err := capacity.NewService(capacity.NewRepository(gormDB))
	requireService(logg, "capacity", err)

	assignmentService, err := assignments.NewService(dbClient, assignments.NewRepository(gormDB), auditService, timelineService, outboxService, engineMetrics, logg)
	requireService(logg, "assignments", err)

	approvalService, err := approvals.NewService(dbClient, approvals.NewRepository(gormDB), assignmentService, outboxService, logg)
	requireService(logg, "approvals", err)

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, brokerP, routes.Services{
			Employees:   employeeService,
			Catalog:     catalogService,
			Items:       itemService,
			Capacity:    capacityService,
			Assignments: assignmentService,
			Approvals:   approvalService,
			Audit:       auditService,
			Timeline:    timelineService,
		}),
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
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
