package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/config"
	"invoice-dashboard-backend/internal/logging"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	c, loadedEnv, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger, logCloser, err := logging.New(c.LogLevel, c.LogFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open log file")
	}
	defer logCloser.Close()
	if !loadedEnv {
		logger.Info().Msg("No .env file found, relying on system env")
	}

	db, err := config.InitDB(c)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect database")
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Invoice{},
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate tables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := newCacheStore(ctx, c, logger)
	pageCache := cache.NewPageCache(store, c.PageCacheTTL, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := gin.New()
	r.Use(logging.Middleware(logger), gin.Recovery())
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     c.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, pageCache, registry, logger)

	srv := &http.Server{
		Addr:    c.Addr(),
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	if closer, ok := store.(interface{ Close() error }); ok {
		closer.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// newCacheStore picks Redis when REDIS_URL is set, otherwise an in-process store.
func newCacheStore(ctx context.Context, c *config.Config, logger zerolog.Logger) cache.Store {
	if c.RedisURL == "" {
		return cache.NewMemoryStore()
	}
	store, err := cache.NewRedisStore(ctx, c.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	logger.Info().Msg("Using Redis page cache")
	return store
}
