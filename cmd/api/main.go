// @title           TinkByte Comments API
// @version         1.0
// @description     Threaded article comments with moderation, reports and reader profiles
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    https://tinkbyte.com/support
// @contact.email  support@tinkbyte.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
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
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "tinkbyte-api/docs" // Swagger docs import

	"tinkbyte-api/internal/cache"
	"tinkbyte-api/internal/client"
	"tinkbyte-api/internal/config"
	"tinkbyte-api/internal/database"
	"tinkbyte-api/internal/job"
	"tinkbyte-api/internal/metrics"
	"tinkbyte-api/internal/repository"
	"tinkbyte-api/internal/router"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting TinkByte comment service",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("env", cfg.Server.Env),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("auth_api_url", cfg.AuthAPI.BaseURL),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	m := metrics.New(logger)

	// Database
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 2*time.Minute)
	db, err := database.Connect(connectCtx, database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, 5*time.Second, logger)
	cancelConnect()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	logger.Info("Database connected successfully")

	if err := database.AutoMigrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	stopDBStats := database.StartDBStatsCollector(db, m, 15*time.Second)
	defer close(stopDBStats)

	businessCollector := metrics.NewBusinessMetricsCollector(db, m, logger, time.Minute)
	businessCollector.Start()
	defer businessCollector.Stop()

	// Profile cache
	var redisClient *redis.Client
	var profileCache cache.ProfileCache
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err = database.NewRedis(cfg.Redis, logger)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		profileCache = cache.NewRedisProfileCache(redisClient, cfg.Cache.TTL)
	default:
		memCache, err := cache.NewMemoryProfileCache(cfg.Cache.Size, cfg.Cache.TTL)
		if err != nil {
			logger.Fatal("Failed to create profile cache", zap.Error(err))
		}
		profileCache = memCache
	}
	logger.Info("Profile cache initialized", zap.String("backend", cfg.Cache.Backend), zap.Duration("ttl", cfg.Cache.TTL))

	// Token validation: the hosted auth service sees revoked sessions, the
	// local secret does not
	var authClient *client.AuthClient
	if cfg.AuthAPI.BaseURL != "" {
		authClient = client.NewAuthClient(cfg.AuthAPI.BaseURL, cfg.AuthAPI.APIKey, cfg.AuthAPI.Timeout, logger, m)
		logger.Info("Auth client initialized", zap.String("auth_api_url", cfg.AuthAPI.BaseURL))
	} else {
		logger.Warn("auth_api.base_url not set, validating tokens locally with jwt.secret")
	}

	// Object storage for avatars
	var s3Client client.S3ClientInterface
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3, err := client.NewS3Client(&cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, avatar uploads disabled", zap.Error(err))
		} else {
			s3Client = s3
			logger.Info("S3 client initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	} else {
		logger.Warn("S3 configuration incomplete, avatar uploads disabled")
	}

	// Notification outbox dispatch
	var notifier client.NotificationClient
	if cfg.NotificationAPI.BaseURL != "" {
		notifier = client.NewNotificationClient(cfg.NotificationAPI.BaseURL, cfg.NotificationAPI.APIKey, cfg.NotificationAPI.Timeout, logger, m)
	} else {
		logger.Warn("notification_api.base_url not set, approved-comment notifications are dropped")
		notifier = client.NewNoOpNotificationClient()
	}
	dispatchJob := job.NewNotificationDispatchJob(
		repository.NewNotificationRepository(db),
		notifier,
		cfg.NotificationAPI.BatchSize,
		m,
		logger,
	)
	if err := dispatchJob.Start(cfg.NotificationAPI.DispatchSchedule); err != nil {
		logger.Fatal("Failed to schedule notification dispatch", zap.Error(err))
	}
	defer dispatchJob.Stop()

	r := router.Setup(router.Config{
		DB:           db,
		Redis:        redisClient,
		Logger:       logger,
		BasePath:     cfg.Server.BasePath,
		JWTSecret:    cfg.JWT.Secret,
		AuthClient:   authClient,
		S3Client:     s3Client,
		ProfileCache: profileCache,
		Moderation:   cfg.Moderation,
		CORSOrigins:  cfg.CORS.Origins(),
		Metrics:      m,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Comment service started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
