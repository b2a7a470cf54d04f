package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/opacedigital/ai-core/internal/analytics"
	"github.com/opacedigital/ai-core/internal/cli"
	"github.com/opacedigital/ai-core/internal/config"
	"github.com/opacedigital/ai-core/internal/gateway"
	"github.com/opacedigital/ai-core/internal/platform/logger"
	"github.com/opacedigital/ai-core/internal/platform/otel"
	"github.com/opacedigital/ai-core/internal/registry"
	"github.com/opacedigital/ai-core/internal/server"
	"github.com/opacedigital/ai-core/internal/store/cache"
	"github.com/opacedigital/ai-core/internal/store/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New(logger.DefaultConfig()).Fatal("Failed to load config", zap.Error(err))
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	log := logger.New(logCfg)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ai-core", zap.String("version", AppVersion), zap.String("env", cfg.Server.Env))
	go checkForUpdates(ctx, releasesURL, AppVersion, log.Named("update"))

	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer(cfg.Tracing.ServiceName, log, os.Stdout)
		if err != nil {
			log.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	reg := registry.NewDefault()
	gateway.ApplyAliases(reg, cfg.Aliases, log)
	providers := gateway.BootstrapProviders(ctx, cfg.Providers, reg, log)

	models := modelCache(ctx, cfg, log)
	if closer, ok := models.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	opts := []gateway.Option{gateway.WithCache(models, cfg.Cache.ModelsTTL)}
	var serverOpts []server.Option

	if cfg.Database.Enabled {
		repo, err := sqlite.NewSQLiteStorage(cfg.Database.DSN, log.Named("store"))
		if err != nil {
			log.Fatal("Failed to open usage database", zap.Error(err))
		}
		defer func() {
			_ = repo.Close()
		}()

		ingestor := analytics.NewIngestor(log.Named("ingestor"), repo)
		ingestor.Start(context.Background())
		defer ingestor.Stop()

		opts = append(opts, gateway.WithUsageRecorder(ingestor))
		serverOpts = append(serverOpts, server.WithAnalytics(analytics.NewService(repo)))
	}

	svc := gateway.NewService(log.Named("gateway"), reg, providers, opts...)

	serverOpts = append(serverOpts, server.WithVersion(AppVersion))
	srv := server.New(cfg, log, svc, serverOpts...)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(cli.Style("Listening", cli.Green), zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-errCh:
		log.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped")
}

// modelCache prefers Redis so listings are shared between replicas and falls
// back to process memory when Redis is disabled or unreachable.
func modelCache(ctx context.Context, cfg *config.Config, log *zap.Logger) cache.CacheService {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache()
	}

	rc := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, "ai-core:")

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pctx); err != nil {
		log.Warn("Redis unreachable, using in-memory cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = rc.Close()
		return cache.NewMemoryCache()
	}

	log.Info("Using Redis cache", zap.String("addr", cfg.Redis.Addr))
	return rc
}
