package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/courtwatch/stattracker/internal/api"
	"github.com/courtwatch/stattracker/internal/api/middleware"
	"github.com/courtwatch/stattracker/internal/boxscore"
	"github.com/courtwatch/stattracker/internal/fantasy"
	"github.com/courtwatch/stattracker/internal/providers"
	"github.com/courtwatch/stattracker/internal/services"
	"github.com/courtwatch/stattracker/internal/storage"
	"github.com/courtwatch/stattracker/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	logger := logrus.StandardLogger()
	if cfg.IsDevelopment() {
		logger.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logger.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to Redis when configured; the providers run uncached otherwise.
	var cache providers.Cache = providers.NopCache{}
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warnf("Invalid Redis URL, running without cache: %v", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(context.Background()).Err(); err != nil {
				logger.Warnf("Redis unreachable, running without cache: %v", err)
			} else {
				defer redisClient.Close()
				cache = services.NewCacheService(redisClient)
				logger.Info("Connected to Redis")
			}
		}
	}

	// Box score providers in fallback priority order
	nbaClient := providers.NewNBAStatsClient(cache, logger, cfg.ProviderTimeout, cfg.MaxGamesPerRequest)
	espnClient := providers.NewESPNClient(cache, logger, cfg.ProviderTimeout)
	bdlClient := providers.NewBallDontLieClient(cfg.BallDontLieAPIKey, cache, logger, cfg.ProviderTimeout)

	sink := storage.NewSink(cfg.DataDir, logger)
	controller := boxscore.NewController(
		[]providers.Provider{nbaClient, espnClient, bdlClient},
		sink, logger, cfg.CircuitBreakerThreshold)

	statsService := services.NewStatsService(controller, logger)

	deps := api.Dependencies{
		Stats:      statsService,
		Boxscores:  controller,
		Scoreboard: espnClient,
		Players:    nbaClient,
	}

	// Fantasy league integration is optional
	var scheduler *services.SchedulerService
	if cfg.HasFantasyCredentials() {
		leagueClient, err := fantasy.NewClient(cfg.LeagueID, cfg.FantasyYear, cfg.ESPNS2, cfg.SWID, logger)
		if err != nil {
			logger.Fatalf("Failed to build fantasy client: %v", err)
		}
		syncService := fantasy.NewSyncService(leagueClient, cfg.DataDir, logger)
		reporter := fantasy.NewReporter(syncService, sink, cfg.DataDir, logger)
		deps.Fantasy = syncService
		deps.Reporter = reporter

		if cfg.EnableBackgroundJobs {
			scheduler = services.NewSchedulerService(syncService, reporter,
				cfg.FantasySyncSchedule, cfg.DailyReportSchedule, logger)
			if err := scheduler.Start(); err != nil {
				logger.Errorf("Failed to start scheduler: %v", err)
			}
			defer scheduler.Stop()
		}
	} else {
		logger.Warn("Fantasy credentials not set, fantasy endpoints disabled")
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	apiGroup := router.Group("/api")
	api.SetupRoutes(apiGroup, deps)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
