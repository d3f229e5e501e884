package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/api"
	"github.com/yumzoom/backend/internal/auth"
	"github.com/yumzoom/backend/internal/cache"
	"github.com/yumzoom/backend/internal/config"
	"github.com/yumzoom/backend/internal/domain"
	"github.com/yumzoom/backend/internal/fcm"
	"github.com/yumzoom/backend/internal/metrics"
	"github.com/yumzoom/backend/internal/repository"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Initialize logger
	logger, err := initLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Starting YumZoom social API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize database
	ctx := context.Background()
	db, err := initDatabase(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Connected to database")

	// Initialize dependencies
	repo := repository.NewPostgresRepository(db)
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	// Tally cache is optional: without Redis every results read recomputes.
	var tallyCache domain.TallyCache
	redisCache, err := cache.NewTallyCacheFromURL(ctx, cfg.Redis.URL, cfg.Redis.TallyTTL, logger)
	if err != nil {
		logger.Warn("Redis unavailable - tally caching disabled", zap.Error(err))
	} else {
		defer redisCache.Close()
		tallyCache = redisCache
		logger.Info("Connected to Redis")
	}

	// Push notifications are optional too.
	var pushClient domain.PushClient
	fcmClient, err := fcm.NewClient(ctx, logger, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	if err != nil {
		logger.Warn("Failed to initialize Firebase client - push notifications will be disabled", zap.Error(err))
	} else {
		pushClient = fcmClient
		logger.Info("Firebase client initialized")
	}

	// Initialize WebSocket manager
	wsManager := api.NewWebSocketManager(logger)
	go wsManager.Run()

	// Initialize services
	notifier := domain.NewNotifier(repo, pushClient, logger)
	activityService := domain.NewActivityService(repo, logger)
	socialService := domain.NewSocialService(repo)
	connectionService := domain.NewConnectionService(repo, repo, activityService)
	recommendationService := domain.NewRecommendationService(repo, connectionService, activityService, notifier)
	collabService := domain.NewCollabService(repo, connectionService, activityService, tallyCache, wsManager, notifier, cfg.Collab.MaxVoteWeight, logger)

	// Initialize handlers
	authHandler := api.NewAuthHandler(repo, jwtManager, cfg.Auth.ExchangeSecret, logger)
	connectionHandler := api.NewConnectionHandler(connectionService, logger)
	activityHandler := api.NewActivityHandler(activityService, logger)
	recommendationHandler := api.NewRecommendationHandler(recommendationService, logger)
	collabHandler := api.NewCollabHandler(collabService, logger)
	socialHandler := api.NewSocialHandler(socialService, logger)
	healthHandler := api.NewHealthHandler(db)

	// Initialize router
	router := api.NewRouter(
		authHandler,
		connectionHandler,
		activityHandler,
		recommendationHandler,
		collabHandler,
		socialHandler,
		healthHandler,
		wsManager,
		jwtManager,
		logger,
	)
	r := router.Setup()

	// Start deadline sweeper
	sweepCtx, sweepCancel := context.WithCancel(ctx)
	go runDeadlineSweeper(sweepCtx, collabService, cfg.Collab.SweepInterval, logger)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop the sweeper
	sweepCancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// runDeadlineSweeper periodically closes active sessions whose deadline has
// passed.
func runDeadlineSweeper(ctx context.Context, collabService *domain.CollabService, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			closed, err := collabService.CloseExpired(ctx, time.Now())
			if err != nil {
				logger.Error("deadline sweep failed", zap.Error(err))
				continue
			}
			if closed > 0 {
				metrics.SessionsClosed.WithLabelValues("deadline").Add(float64(closed))
				logger.Info("closed expired sessions", zap.Int("count", closed))
			}
		}
	}
}

func initLogger() (*zap.Logger, error) {
	env := os.Getenv("ENV")
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func initDatabase(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
