package main

import (
	"context"
	"errors"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pdfchat/docs"
	"pdfchat/internal/config"
	handlers "pdfchat/internal/http/handler"
	"pdfchat/internal/http/middleware"
	"pdfchat/internal/otel"
	"pdfchat/internal/service"
)

const shutdownTimeout = 10 * time.Second

func runServe(parent context.Context) error {
	cfg, log := bootstrap()
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Error("tracing_init_failed", zap.Error(err))
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	ds, err := openDatastore(ctx, cfg, log)
	if err != nil {
		log.Warn("datastore_unavailable",
			zap.String("driver", cfg.Datastore.Driver),
			zap.Error(err),
		)
		ds = datastore{}
	} else {
		log.Info("datastore_ready", zap.String("driver", cfg.Datastore.Driver), zap.String("name", ds.inspector.Name()))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := ds.Close(sctx); err != nil {
			log.Warn("datastore_close_failed", zap.Error(err))
		}
	}()

	store, janitor, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("storage_init_failed", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := newApp(cfg, log, reg, handlers.Deps{
		Documents:   service.NewDocumentService(store, ds.repo, cfg.Storage.PresignExpiry),
		Chat:        service.NewChatService(ds.repo),
		Diagnostics: service.NewDiagnosticsService(ds.inspector),
		Inspector:   ds.inspector,
		Gatherer:    reg,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info("http_listen", zap.String("addr", addr))
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("http_shutdown")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	if janitor != nil {
		g.Go(func() error { return janitor.Run(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server_stopped", zap.Error(err))
		return err
	}
	log.Info("server_stopped")
	return nil
}

// newApp builds the Fiber app with the global middleware chain and every route.
func newApp(cfg *config.AppConfig, log *zap.Logger, reg *prometheus.Registry, deps handlers.Deps) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.Storage.MaxUploadSize,
		DisableStartupMessage: true,
	})

	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, err
	}

	tracing := otelfiber.Middleware()

	app.Use(middleware.RequestID())
	app.Use(func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		return tracing(c)
	})
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD",
		AllowHeaders: "*",
	}))

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	return app, nil
}
