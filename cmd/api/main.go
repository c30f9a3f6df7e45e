package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"real-estate-catalog/internal/blobstore"
	"real-estate-catalog/internal/cache"
	"real-estate-catalog/internal/catalog"
	"real-estate-catalog/internal/cleanup"
	"real-estate-catalog/internal/config"
	"real-estate-catalog/internal/contact"
	"real-estate-catalog/internal/database"
	"real-estate-catalog/internal/handlers"
	"real-estate-catalog/internal/history"
	"real-estate-catalog/internal/logging"
	"real-estate-catalog/internal/ratelimit"
	"real-estate-catalog/internal/scheduler"
	"real-estate-catalog/internal/search"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	_ = godotenv.Load()

	// Load configuration
	configPath := config.GetEnv("CONFIG_PATH", "config/catalog.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	appConfig.ApplyEnv()

	logger := logging.New(appConfig.Logging)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "path", configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	gormDB, err := database.Open(appConfig.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer gormDB.Close()

	if err := gormDB.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Read caches
	cacheStore, closeCache, err := newCacheStore(ctx, appConfig.Cache, logger)
	if err != nil {
		return err
	}
	defer closeCache()
	layer := cache.NewLayer(cacheStore, logger)

	// Image storage
	blobs, closeBlobs, err := newBlobStore(ctx, appConfig.Storage, logger)
	if err != nil {
		return err
	}
	defer closeBlobs()

	rules, err := catalog.RulesFromConfig(appConfig.Catalog, appConfig.Storage)
	if err != nil {
		return err
	}

	var opts []catalog.Option
	meili := appConfig.Search.Meilisearch
	if meili.Enabled {
		searchClient := search.NewSearchClient(meili.Host, meili.APIKey, meili.Index, logger)
		if err := searchClient.InitIndex(); err != nil {
			logger.Warn("failed to initialize search index", "error", err)
		}
		opts = append(opts, catalog.WithIndexer(searchClient))
	}

	catalogService := catalog.NewService(catalog.NewGormStore(gormDB), blobs, layer, logger, rules, opts...)
	contactService := contact.NewService(gormDB, logger)
	historyService := history.NewService(gormDB.DB())
	cleanupService := cleanup.NewService(gormDB.DB(), logger)

	rateLimiter := ratelimit.NewRateLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)
	logger.Info("rate limiter initialized",
		"per_minute", appConfig.RateLimit.RequestsPerMinute,
		"per_hour", appConfig.RateLimit.RequestsPerHour,
		"enabled", appConfig.RateLimit.Enabled)

	// Background jobs
	var reindexer scheduler.Reindexer
	if meili.Enabled {
		reindexer = catalogService
	}
	appScheduler := scheduler.NewScheduler(appConfig.Scheduler, cleanupService, reindexer, logger)
	if err := appScheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer appScheduler.Stop()

	go pruneRateLimiter(ctx, rateLimiter)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(appConfig, logger, handlers.Router{
		Properties: handlers.NewPropertyHandler(catalogService, appConfig.Catalog, rules.MaxFileSize),
		Contacts:   handlers.NewContactHandler(contactService, appConfig.Catalog),
		Files:      handlers.NewFileHandler(blobs),
		Admin:      handlers.NewAdminHandler(gormDB.DB(), catalogService, historyService, cleanupService, rateLimiter),
		Limiter:    rateLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", appConfig.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.GetShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newCacheStore(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (cache.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		client, err := cache.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("using redis cache", "addr", cfg.Redis.Addr)
		return cache.NewRedisStore(client, cfg.Redis.Prefix, cfg.GetTTL()), func() { client.Close() }, nil
	case "memory", "":
		logger.Info("using in-memory cache")
		return cache.NewMemoryStore(cfg.GetTTL()), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}

func newBlobStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (blobstore.Store, func(), error) {
	switch cfg.Backend {
	case "gcs":
		gcs, err := blobstore.NewGCS(ctx, cfg.GCS.Bucket, cfg.GCS.CredentialsFile, cfg.GCS.PathPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize GCS storage: %w", err)
		}
		logger.Info("using GCS image storage", "bucket", cfg.GCS.Bucket)
		return gcs, func() { gcs.Close() }, nil
	case "local", "":
		local, err := blobstore.NewLocal(cfg.Local.Dir, cfg.Local.PublicPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		logger.Info("using local image storage", "dir", cfg.Local.Dir)
		return local, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// pruneRateLimiter drops idle clients every few minutes
func pruneRateLimiter(ctx context.Context, rl *ratelimit.RateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Prune()
		}
	}
}
