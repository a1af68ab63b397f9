package cmd

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"media-mirror/core/backend"
	"media-mirror/core/blobcache"
	"media-mirror/core/catalog"
	"media-mirror/core/config"
	"media-mirror/core/database"
	"media-mirror/core/loader"
	"media-mirror/core/logger"
	"media-mirror/core/metrics"
	"media-mirror/core/middleware/auth"
	"media-mirror/core/middleware/rayid"
	"media-mirror/core/syncer"

	cachefeature "media-mirror/feature/cache"
	"media-mirror/feature/providers"
	syncfeature "media-mirror/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "media-mirror/docs/swagger"
)

// @title Media Mirror API
// @version 1.0
// @description API for mirroring media libraries from storage providers.
// @host localhost:8080
// @BasePath /api/v1

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the media mirror server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the Catalog Database
		// Unlike the cache, the catalog is not optional: without it there is
		// nothing to sync into.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to catalog database", zap.Error(err))
		}
		if err := catalog.AutoMigrate(db); err != nil {
			logg.Fatal("Failed to migrate catalog schema", zap.Error(err))
		}
		store := catalog.NewStore(db)
		logg.Info("Connected to catalog database", zap.String("driver", cfg.Database.Driver))

		// 4. Open the Content Cache
		blobCache, err := blobcache.New(cfg.Cache, logg)
		if err != nil {
			logg.Fatal("Failed to open content cache", zap.Error(err))
		}
		defer blobCache.Close()
		metrics.SetCacheSize(blobCache.Size())

		// 5. Backend Registry + Sync Engine
		registry := backend.NewRegistry(store, backend.Deps{
			Logger:   logg,
			Cache:    blobCache,
			Catalog:  store,
			Defaults: cfg.Backend,
		})
		engine := syncer.NewEngine(registry, store, store, cfg.Sync, logg)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// RayID must be first so every later log line carries the id.
		app.Use(rayid.New())

		// Request logging with Zap + RayID
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		app.Use(metrics.RequestMiddleware())

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		mgr := loader.NewManager()
		mgr.Register(syncfeature.NewFeature(engine, logg))
		mgr.Register(providers.NewFeature(store, registry, logg))
		mgr.Register(cachefeature.NewFeature(blobCache, logg))

		api := app.Group(cfg.Server.BasePath)
		if err := mgr.LoadAll(api); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Metrics Endpoint (own listener, never behind auth)
		var metricsServer *http.Server
		if cfg.Server.MetricsEnabled() {
			metricsServer = &http.Server{
				Addr:    cfg.Server.MetricsAddr(),
				Handler: metrics.Handler(),
			}
			go func() {
				logg.Info("Metrics endpoint listening", zap.String("addr", metricsServer.Addr))
				if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
					logg.Error("Metrics endpoint failed", zap.Error(err))
				}
			}()
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("addr", cfg.Server.Addr()),
				zap.String("base_path", cfg.Server.BasePath))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
		if metricsServer != nil {
			_ = metricsServer.Close()
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
