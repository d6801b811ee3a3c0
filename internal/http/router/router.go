package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talenvo/talenvo-backend/internal/config"
	"github.com/talenvo/talenvo-backend/internal/http/handlers"
	"github.com/talenvo/talenvo-backend/internal/http/middleware"
	"github.com/talenvo/talenvo-backend/internal/metrics"
	"github.com/talenvo/talenvo-backend/internal/service"
)

// SetupRouter собирает HTTP маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
	likeHandler *handlers.LikeHandler,
	reportHandler *handlers.ReportHandler,
	moderationHandler *handlers.ModerationHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
	authService *service.AuthService,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(metrics.Middleware())

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", metrics.Handler())
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager, authService))
	{
		protectedAuth.POST("/logout", authHandler.Logout)
		protectedAuth.GET("/me", authHandler.Me)
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", middleware.UUIDValidator("id"), authHandler.DeleteSession)
	}

	// Публичные маршруты: лента и профили читаются без авторизации.
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", middleware.UUIDValidator("id"), postHandler.Get)
	api.GET("/posts/:id/comments", middleware.UUIDValidator("id"), commentHandler.List)
	api.GET("/users/:id/posts", middleware.UUIDValidator("id"), postHandler.ListByAuthor)
	api.GET("/users/:id/profile", middleware.UUIDValidator("id"), profileHandler.Get)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты.
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager, authService))
	{
		protected.PUT("/profile", profileHandler.Update)

		protected.POST("/posts", postHandler.Create)
		protected.PUT("/posts/:id", middleware.UUIDValidator("id"), postHandler.Update)
		protected.DELETE("/posts/:id", middleware.UUIDValidator("id"), postHandler.Delete)

		protected.POST("/posts/:id/comments", middleware.UUIDValidator("id"), commentHandler.Create)
		protected.DELETE("/comments/:id", middleware.UUIDValidator("id"), commentHandler.Delete)

		protected.POST("/likes/toggle", likeHandler.ToggleLike)
		protected.GET("/likes/state", likeHandler.LikeState)
		protected.POST("/users/:id/follow", middleware.UUIDValidator("id"), likeHandler.ToggleFollow)
		protected.GET("/users/:id/follow", middleware.UUIDValidator("id"), likeHandler.FollowState)

		reportRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
		protected.POST("/reports", reportRateLimit, reportHandler.Create)
		protected.GET("/reports", reportHandler.ListMy)
		protected.GET("/reports/count", reportHandler.CountByTarget)

		protected.POST("/media", mediaHandler.Upload)
		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), mediaHandler.Delete)
	}

	// Панель модерации: и middleware, и сервис проверяют права по базе.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager, authService), middleware.AdminMiddleware())
	{
		admin.GET("/reports", moderationHandler.Queue)
		admin.GET("/reports/aggregate", moderationHandler.Aggregate)
		admin.POST("/reports/:id/approve", middleware.UUIDValidator("id"), moderationHandler.Approve)
		admin.POST("/reports/:id/reject", middleware.UUIDValidator("id"), moderationHandler.Reject)
		admin.PUT("/users/:id/status", middleware.UUIDValidator("id"), moderationHandler.SetUserStatus)
		admin.DELETE("/users/:id", middleware.UUIDValidator("id"), moderationHandler.DeleteAccount)
		admin.GET("/counts", moderationHandler.Counts)
	}

	return r
}
