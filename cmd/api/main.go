package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pet-adoption-api/config"
	"pet-adoption-api/middleware"
	"pet-adoption-api/models"
	"pet-adoption-api/monitor"
	"pet-adoption-api/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	logFile, logger := config.InitLogging(cfg.Log)
	if logFile != nil {
		defer logFile.Close()
	}
	defer func() { _ = logger.Sync() }()

	// Initialize database
	if err := config.InitDB(cfg.Database, cfg.IsProduction()); err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if !cfg.IsProduction() {
		if err := models.Migrate(config.DB); err != nil {
			logger.Fatal("schema migration failed", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.InitRedis(ctx, cfg.Redis); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	if config.Redis == nil {
		logger.Warn("REDIS_ADDR not set; logout will not revoke issued tokens")
	}

	// Set Gin mode
	if cfg.GinMode == gin.ReleaseMode || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	routes.SetupRoutes(router, nil)
	monitor.RegisterMonitorRoutes(router, func() *gorm.DB { return config.DB })

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
			zap.Bool("smtp", cfg.SMTP.Enabled()),
			zap.Bool("redis", config.Redis != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if config.Redis != nil {
		_ = config.Redis.Close()
	}
	if sqlDB, err := config.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped")
}
