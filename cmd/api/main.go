package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"rppapi/docs"
	"rppapi/internal/config"
	"rppapi/internal/database"
	"rppapi/internal/database/migration"
	"rppapi/internal/generator"
	handlers "rppapi/internal/http/handler"
	"rppapi/internal/http/middleware"
	"rppapi/internal/lock"
	"rppapi/internal/logger"
	"rppapi/internal/metrics"
	"rppapi/internal/otel"
	"rppapi/internal/reaper"
	"rppapi/internal/render"
	"rppapi/internal/repository/orm"
	"rppapi/internal/repository/postgres"
	"rppapi/internal/service"
	"rppapi/internal/storage"
)

// @title RPP API
// @version 1.0
// @description Lesson-plan (RPP) documents, products and AI-assisted PDF generation.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.Configure(logger.Config{
		Level:    cfg.Log.Level,
		Pretty:   cfg.Log.Pretty,
		Location: cfg.Location(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, lg, cfg.Database.Host); err != nil {
		lg.Fatal().Err(err).Msg("database migration failed")
	}

	gdb, err := database.NewGorm(db)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize gorm")
	}

	store, err := newStorage(cfg.Storage, cfg.MinIO)
	if err != nil {
		lg.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to initialize pdf storage")
	}

	locker, closeLocker, err := newLocker(ctx, cfg.Redis)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize generation lock")
	}
	defer closeLocker()

	renderer, err := newRenderer(cfg.Render)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize renderer")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	genMetrics, err := metrics.NewGeneration(reg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to register generation metrics")
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to register http metrics")
	}

	docRepo := postgres.NewDocumentPostgres(db)
	productRepo := orm.NewProductGorm(gdb)

	docSvc := service.NewDocumentService(docRepo, store, cfg.Storage.PublicPrefix)
	productSvc := service.NewProductService(productRepo)
	genSvc := service.NewGenerationService(service.GenerationDeps{
		Repo:         docRepo,
		Generator:    generator.NewAnthropic(cfg.AI),
		Renderer:     renderer,
		Store:        store,
		Locker:       locker,
		LockTTL:      time.Duration(cfg.GenLockTTLSec) * time.Second,
		PublicPrefix: cfg.Storage.PublicPrefix,
		Metrics:      genMetrics,
	})

	if cfg.Reaper.Enabled {
		r := &reaper.Reaper{
			Repo:         docRepo,
			Store:        store,
			PublicPrefix: cfg.Storage.PublicPrefix,
			Retention:    time.Duration(cfg.Reaper.RetentionHours) * time.Hour,
			MinAge:       time.Duration(cfg.GenLockTTLSec) * time.Second,
			Logger:       lg.With().Str("component", "reaper").Logger(),
			Timeout:      10 * time.Minute,
		}
		c, err := r.Start(cfg.Reaper.Schedule)
		if err != nil {
			lg.Fatal().Err(err).Msg("failed to start reaper")
		}
		defer c.Stop()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Generation waits on the language model and the browser.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	// RequestID must run before Logger so access logs carry the id.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())
	app.Use(middleware.Logger(lg))

	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:           db,
		Documents:    docSvc,
		Products:     productSvc,
		Generation:   genSvc,
		Store:        store,
		PublicPrefix: cfg.Storage.PublicPrefix,
		Gatherer:     reg,
	})

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
		lg.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			lg.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	lg.Info().
		Str("addr", addr).
		Str("storage", cfg.Storage.Driver).
		Str("renderer", renderer.Name()).
		Msg("server starting")
	if err := app.Listen(addr); err != nil {
		lg.Error().Err(err).Msg("server stopped")
	}
}

func newStorage(sc config.StorageConfig, mc config.MinIOConfig) (storage.Storage, error) {
	if sc.Driver == "minio" {
		return storage.NewMinIO(mc)
	}
	return storage.NewLocal(sc.LocalDir)
}

// newLocker uses Redis when a URL is configured, so that several replicas share locks.
func newLocker(ctx context.Context, rc config.RedisConfig) (lock.Locker, func(), error) {
	if rc.URL == "" {
		return lock.NewMemory(), func() {}, nil
	}
	rdb, err := lock.Connect(ctx, rc.URL)
	if err != nil {
		return nil, nil, err
	}
	return lock.NewRedis(rdb), func() { _ = rdb.Close() }, nil
}

func newRenderer(rc config.RenderConfig) (render.Renderer, error) {
	switch rc.Strategy {
	case "draw":
		return render.NewDrawRenderer(), nil
	case "template", "":
		return render.NewTemplateRenderer(&render.ChromeConverter{
			ExecPath:  rc.ChromePath,
			NoSandbox: rc.NoSandbox,
			Timeout:   2 * time.Minute,
		}), nil
	default:
		return nil, fmt.Errorf("unknown render strategy %q", rc.Strategy)
	}
}
