package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/veritydate/verity-backend/internal/http/handlers"
	httpMW "github.com/veritydate/verity-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	DiscoverHandler     *httpH.DiscoverHandler
	SwipeHandler        *httpH.SwipeHandler
	DateHandler         *httpH.DateHandler
	ProfileHandler      *httpH.ProfileHandler
	NotificationHandler *httpH.NotificationHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Discovery
		if cfg.DiscoverHandler != nil {
			protected.GET("/discover", cfg.DiscoverHandler.Discover)
		}

		// Swipes, matches, premium ops
		if cfg.SwipeHandler != nil {
			protected.POST("/likes", cfg.SwipeHandler.Like)
			protected.POST("/passes", cfg.SwipeHandler.Pass)
			protected.POST("/undo", cfg.SwipeHandler.Undo)
			protected.POST("/boost", cfg.SwipeHandler.Boost)
			protected.GET("/liked-you", cfg.SwipeHandler.LikedYou)
			protected.GET("/liked-you/count", cfg.SwipeHandler.LikedYouCount)
			protected.GET("/matches", cfg.SwipeHandler.Matches)
		}

		// Verity dates
		if cfg.DateHandler != nil {
			protected.GET("/dates/:id", cfg.DateHandler.Get)
			protected.POST("/dates/:id/schedule", cfg.DateHandler.Schedule)
			protected.POST("/dates/:id/room", cfg.DateHandler.Room)
			protected.POST("/dates/:id/feedback", cfg.DateHandler.Feedback)
		}

		// Profile + preferences
		if cfg.ProfileHandler != nil {
			protected.POST("/profiles", cfg.ProfileHandler.Create)
			protected.GET("/me/profile", cfg.ProfileHandler.Me)
			protected.PUT("/me/preferences", cfg.ProfileHandler.Preferences)
			protected.PUT("/me/location", cfg.ProfileHandler.Location)
			protected.POST("/me/active", cfg.ProfileHandler.Active)
		}

		// Notifications
		if cfg.NotificationHandler != nil {
			protected.GET("/notifications", cfg.NotificationHandler.List)
			protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
		}
	}

	return r
}
