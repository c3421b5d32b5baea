package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"libraryfront/docs"
	"libraryfront/internal/backend"
	"libraryfront/internal/catalog"
	"libraryfront/internal/config"
	"libraryfront/internal/database"
	"libraryfront/internal/database/migration"
	handlers "libraryfront/internal/http/handler"
	"libraryfront/internal/http/middleware"
	"libraryfront/internal/logging"
	"libraryfront/internal/otel"
	"libraryfront/internal/repository"
	"libraryfront/internal/repository/postgres"
	"libraryfront/internal/service"
	"libraryfront/internal/storage"
)

// @title Library Front API
// @version 1.0
// @BasePath /
func main() {
	// .env is auto-loaded if present
	cfg := config.Load()
	loc := cfg.Location()
	log := logging.New(cfg.Log, os.Stdout, loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logging.Component(log, "otel"))
	if err != nil {
		log.Fatal().Err(err).Msg("tracing_init_failed")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	backendMetrics, err := backend.NewMetrics(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("metrics_init_failed")
	}
	catalogMetrics, err := catalog.NewMetrics(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("metrics_init_failed")
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg, "/healthz", "/api/views/:id/events")
	if err != nil {
		log.Fatal().Err(err).Msg("metrics_init_failed")
	}

	client, err := backend.New(cfg.Backend,
		backend.WithLogger(logging.Component(log, "backend")),
		backend.WithMetrics(backendMetrics),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("backend_init_failed")
	}

	// audit log is optional: without DB_HOST actions are only logged
	var auditRepo repository.AuditRepository
	deps := handlers.Dependencies{}
	if cfg.Database.Host != "" {
		db, err := database.NewPostgres(ctx, cfg.Database, logging.Component(log, "database"))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, logging.Component(log, "migration"), cfg.Database.Host); err != nil {
			log.Fatal().Err(err).Msg("migration_failed")
		}
		auditRepo = postgres.NewAuditPostgres(db)
		deps.DB = db
	}

	// report archive is optional as well
	var store storage.Storage
	if cfg.MinIO.Endpoint != "" {
		store, err = storage.NewMinIO(ctx, cfg.MinIO, logging.Component(log, "storage"))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize object storage")
		}
	}

	auditSvc := service.NewAuditService(auditRepo, logging.Component(log, "audit"))
	views := catalog.NewRegistry(client, catalog.RegistryOptions{
		MaxViews: cfg.Catalog.MaxViews,
		TTL:      cfg.Catalog.ViewTTL(),
		PageSizes: map[catalog.Kind]int{
			catalog.KindAdmin: cfg.Catalog.AdminPageSize,
			catalog.KindUser:  cfg.Catalog.UserPageSize,
		},
		Debounce: cfg.Catalog.Debounce(),
		Logger:   logging.Component(log, "catalog"),
		Metrics:  catalogMetrics,
	})
	defer views.Purge()

	deps.Backend = client
	deps.Gatherer = reg
	deps.Catalog = service.NewCatalogService(client, logging.Component(log, "catalog"), catalogMetrics)
	deps.Views = views
	deps.Books = service.NewBookService(client, auditSvc)
	deps.Dashboard = service.NewDashboardService(client, logging.Component(log, "dashboard"))
	deps.Reports = service.NewReportService(client, store, auditSvc, logging.Component(log, "reports"))
	deps.Audit = auditSvc
	deps.AdminPageSize = cfg.Catalog.AdminPageSize
	deps.UserPageSize = cfg.Catalog.UserPageSize
	deps.Now = func() time.Time { return time.Now().In(loc) }

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    64 << 20,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logging.Component(log, "http")))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown_failed")
		}
	}()

	log.Info().Str("addr", ":"+cfg.Port).Str("backend", cfg.Backend.BaseURL).Msg("server_starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("failed to start server")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracing_shutdown_failed")
	}
}
