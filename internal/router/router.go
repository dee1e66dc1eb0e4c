package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tinkbyte-api/internal/cache"
	"tinkbyte-api/internal/client"
	"tinkbyte-api/internal/config"
	"tinkbyte-api/internal/handler"
	"tinkbyte-api/internal/metrics"
	"tinkbyte-api/internal/middleware"
	"tinkbyte-api/internal/repository"
	"tinkbyte-api/internal/service"
)

const serviceName = "tinkbyte-comments"

// Config holds router configuration
type Config struct {
	DB           *gorm.DB
	Redis        *redis.Client
	Logger       *zap.Logger
	BasePath     string
	JWTSecret    string
	AuthClient   *client.AuthClient
	// S3Client may be nil when object storage is not configured
	S3Client     client.S3ClientInterface
	ProfileCache cache.ProfileCache
	Moderation   config.ModerationConfig
	CORSOrigins  []string
	Metrics      *metrics.Metrics
	// Gatherer backs /metrics. Nil serves the default registry.
	Gatherer     prometheus.Gatherer
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	metricsHandler := promhttp.Handler()
	if cfg.Gatherer != nil {
		metricsHandler = promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})
	r.GET("/ready", readinessHandler(cfg))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	profileCache := cfg.ProfileCache
	// Initialize repositories
	commentRepo := repository.NewCommentRepository(cfg.DB)
	articleRepo := repository.NewArticleRepository(cfg.DB)
	likeRepo := repository.NewLikeRepository(cfg.DB)
	profileRepo := repository.NewProfileRepository(cfg.DB)
	reportRepo := repository.NewReportRepository(cfg.DB)
	moderationRepo := repository.NewModerationRepository(cfg.DB)
	notificationRepo := repository.NewNotificationRepository(cfg.DB)

	// Initialize services
	commentService := service.NewCommentService(commentRepo, articleRepo, likeRepo, profileRepo, profileCache, cfg.Moderation, cfg.Metrics, cfg.Logger)
	reportService := service.NewReportService(commentRepo, reportRepo, moderationRepo, cfg.Moderation, cfg.Metrics, cfg.Logger)
	moderationService := service.NewModerationService(commentRepo, moderationRepo, reportRepo, notificationRepo, cfg.Metrics, cfg.Logger)
	profileService := service.NewProfileService(profileRepo, profileCache, cfg.S3Client, cfg.Logger)
	identityService := service.NewIdentityService(profileRepo, profileCache, cfg.Logger)

	// Initialize handlers
	commentHandler := handler.NewCommentHandler(commentService)
	reportHandler := handler.NewReportHandler(reportService)
	moderationHandler := handler.NewModerationHandler(moderationService)
	profileHandler := handler.NewProfileHandler(profileService)

	// Auth middleware
	var validator middleware.TokenValidator
	if cfg.AuthClient != nil {
		validator = cfg.AuthClient
	} else {
		validator = middleware.NewLocalJWTValidator(cfg.JWTSecret)
	}
	authMiddleware := middleware.Auth(validator)
	optionalAuth := middleware.OptionalAuth(validator)
	adminOnly := middleware.RequireAdmin(identityService, cfg.Logger)

	api := r.Group(cfg.BasePath)
	api.GET("/metrics", gin.WrapH(metricsHandler))

	// ============================================================
	// Comment routes
	// ============================================================
	comments := api.Group("/comments")
	{
		comments.GET("/list", optionalAuth, commentHandler.ListComments)
		comments.POST("", optionalAuth, commentHandler.CreateComment)
		comments.POST("/report", authMiddleware, reportHandler.ReportComment)
		comments.POST("/moderate", authMiddleware, adminOnly, moderationHandler.Moderate)
		comments.GET("/:commentId", optionalAuth, commentHandler.GetComment)
		comments.PUT("/:commentId", authMiddleware, commentHandler.UpdateComment)
		comments.DELETE("/:commentId", authMiddleware, commentHandler.DeleteComment)
		comments.POST("/:commentId/like", authMiddleware, commentHandler.LikeComment)
		comments.DELETE("/:commentId/like", authMiddleware, commentHandler.UnlikeComment)
	}

	// ============================================================
	// Profile routes
	// ============================================================
	profiles := api.Group("/profiles/me", authMiddleware)
	{
		profiles.GET("", profileHandler.GetMe)
		profiles.PATCH("", profileHandler.UpdateMe)
		profiles.POST("/avatar-upload-url", profileHandler.AvatarUploadURL)
	}

	// ============================================================
	// Admin routes
	// ============================================================
	admin := api.Group("/admin", authMiddleware, adminOnly)
	{
		admin.GET("/comments", moderationHandler.Queue)
		admin.GET("/comments/stats", moderationHandler.Stats)
		admin.GET("/comments/:commentId/history", moderationHandler.History)
		admin.GET("/comments/:commentId/reports", reportHandler.ListReports)
		admin.POST("/comments/:commentId/reports/resolve", reportHandler.ResolveReports)
		admin.POST("/moderate", moderationHandler.Moderate)
		admin.PATCH("/users/:userId", profileHandler.UpdateFlags)
	}

	return r
}

func readinessHandler(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		notReady := func(reason string) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": serviceName, "reason": reason})
		}

		if cfg.DB == nil {
			notReady("database not configured")
			return
		}
		sqlDB, err := cfg.DB.DB()
		if err != nil {
			notReady("database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := sqlDB.PingContext(ctx); err != nil {
			notReady("database unavailable")
			return
		}
		if cfg.Redis != nil {
			if err := cfg.Redis.Ping(ctx).Err(); err != nil {
				notReady("redis unavailable")
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": serviceName})
	}
}
