package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tubeten/playlist-trivia-go/internal/cache"
	"github.com/tubeten/playlist-trivia-go/internal/config"
	"github.com/tubeten/playlist-trivia-go/internal/handler"
	"github.com/tubeten/playlist-trivia-go/internal/middleware"
	"github.com/tubeten/playlist-trivia-go/internal/service"
	"github.com/tubeten/playlist-trivia-go/internal/youtube"
	"github.com/tubeten/playlist-trivia-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	store, pinger := initStore(ctx, cfg.Redis.URL)

	catalog := initCatalog(ctx, cfg)

	pools := service.NewPoolService(catalog, store, service.Options{
		CacheTTL:         cfg.Cache.TTL,
		MaxDetailLookups: cfg.Import.MaxDetailLookups,
		MaxSampleCount:   cfg.Sampling.MaxCount,
		Filter: service.FilterConfig{
			MinDurationSec: cfg.Import.MinDurationSec,
			MaxDurationSec: cfg.Import.MaxDurationSec,
		},
	})

	importHandler := handler.NewImportHandler(pools)
	poolHandler := handler.NewPoolHandler(pools, cfg.Sampling.DefaultCount, cfg.Sampling.MaxCount)
	healthHandler := handler.NewHealthHandler(pinger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.HandleMethodNotAllowed = true
	router.NoRoute(handler.NotFound)
	router.NoMethod(handler.MethodNotAllowed)

	router.POST("/import", importHandler.HandleImport)
	router.GET("/pool/:playlistId", poolHandler.HandleGetPool)
	router.GET("/play/:playlistId", poolHandler.HandlePlay)
	router.GET("/health", healthHandler.LivenessProbe)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	case sig := <-shutdown:
		logger.Log.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Log.Error("graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("server stopped gracefully")
	}
}

// initStore connects the Redis pool store, falling back to the in-process
// store when no URL is configured or the connection fails.
func initStore(ctx context.Context, redisURL string) (cache.PoolStore, handler.Pinger) {
	if redisURL == "" {
		logger.Log.Warn("REDIS_URL not configured, pools will not survive restarts")
		return cache.NewMemoryStore(), nil
	}

	opts, err := cache.ParseRedisURL(redisURL)
	if err != nil {
		logger.Log.Warn("invalid Redis URL, falling back to in-process store", zap.Error(err))
		return cache.NewMemoryStore(), nil
	}

	client := redis.NewClient(opts)
	store := cache.NewRedisStore(client)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		logger.Log.Warn("Redis unreachable, falling back to in-process store", zap.Error(err))
		return cache.NewMemoryStore(), nil
	}

	logger.Log.Info("Redis pool store connected", zap.String("addr", opts.Addr))
	return store, store
}

// initCatalog builds the YouTube Data API client. Imports are rejected with a
// configuration error when no API key is set; read endpoints keep working.
func initCatalog(ctx context.Context, cfg *config.Config) service.Catalog {
	if cfg.YouTube.APIKey == "" {
		logger.Log.Warn("YouTube API key not configured (YOUTUBE_API_KEY), playlist imports will be rejected")
		return nil
	}

	client, err := youtube.NewClient(ctx, cfg.YouTube.APIKey)
	if err != nil {
		logger.Log.Warn("failed to initialize YouTube API client, playlist imports will be rejected", zap.Error(err))
		return nil
	}
	client.MaxItems = cfg.Import.MaxItems
	client.RequestTimeout = cfg.YouTube.RequestTimeout

	return client
}
