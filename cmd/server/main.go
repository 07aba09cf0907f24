package main

import (
	"fmt"
	"log"
	"net/http"

	"towdash/internal/config"
	"towdash/internal/handlers"
	"towdash/internal/middleware"
	"towdash/internal/repositories/mongodb"
	"towdash/internal/services"
	"towdash/internal/workflow"
	"towdash/pkg/cache"
	"towdash/pkg/database"
	"towdash/pkg/logger"
	"towdash/pkg/maps"
	"towdash/pkg/websocket"
	"towdash/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
		Colors: !config.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Record store
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

	// Cache is optional; the collection stays the source of truth.
	var cacheService services.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			appLogger.WithError(err).Warn("Redis unavailable, running without cache")
		} else {
			cacheService = redisCache
			defer redisCache.Close()
		}
	}

	var mapsProvider maps.Provider
	if cfg.Maps.Enabled {
		googleMaps, err := maps.NewGoogleMapsProvider(cfg.Maps.GoogleAPIKey)
		if err != nil {
			appLogger.WithError(err).Warn("Maps provider unavailable, using haversine distance")
		} else {
			mapsProvider = googleMaps
		}
	}

	wsHandler := websocket.NewHandler()

	repo := mongodb.NewDashboardRepository(db.Database, cacheService)
	engine := workflow.NewEngine()
	dashboardService := services.NewDashboardService(repo, engine, mapsProvider, wsHandler, appLogger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Initialize Gin router
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(appLogger))

	// API routes
	v1 := router.Group("/api/v1")
	{
		routes.SetupDashboardRoutes(v1, dashboardHandler, wsHandler)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		appLogger.Fatalf("Server stopped: %v", err)
	}
}
