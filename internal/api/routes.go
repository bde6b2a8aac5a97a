package api

import (
	"github.com/gin-gonic/gin"

	"github.com/reelscope/reelscope/internal/telemetry"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, tel *telemetry.Provider) {
	// Health, readiness, and metrics
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	router.GET("/metrics", gin.WrapH(tel.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		reels := v1.Group("/reels")
		{
			reels.POST("/analyze", handler.Analyze) // POST /api/v1/reels/analyze
			reels.POST("/compare", handler.Compare) // POST /api/v1/reels/compare
		}

		users := v1.Group("/users")
		{
			users.GET("/:username", handler.UserAnalytics) // GET /api/v1/users/:username
		}
	}
}
