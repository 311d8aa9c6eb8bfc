package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/modswap/modswap-backend/controllers"
	"github.com/modswap/modswap-backend/middleware"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Module catalog (read-only, any signed-in user)
	modules := api.Group("/modules")
	{
		modules.Use(middleware.AuthMiddleware())
		modules.GET("", controllers.GetModules)
		modules.GET("/:id", controllers.GetModuleDetail)
	}

	swaps := api.Group("/swaps")
	{
		swaps.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))
		swaps.POST("", controllers.CreateSwap)
		swaps.GET("", controllers.BrowseSwaps)
		swaps.GET("/mine", controllers.GetMySwaps)
		swaps.GET("/:id", controllers.GetSwapDetail)
		swaps.PUT("/:id", controllers.UpdateSwap)
		swaps.GET("/:id/matches", controllers.GetSwapMatches)
		swaps.PATCH("/:id/close", controllers.CloseSwap)
		swaps.POST("/:id/confirm", controllers.ConfirmSwap)
	}

	notifications := api.Group("/notifications")
	{
		notifications.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))
		notifications.GET("", controllers.GetNotifications)
		notifications.GET("/unread-count", controllers.GetUnreadCount)
		notifications.PATCH("/:id/read", controllers.MarkNotificationAsRead)
		notifications.PATCH("/read-all", controllers.MarkAllAsRead)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db),
			middleware.RequireRoles("admin", "staff"))

		// Catalog management
		admin.POST("/modules", controllers.CreateModule)
		admin.PUT("/modules/:id", controllers.UpdateModule)
		admin.DELETE("/modules/:id", controllers.DeleteModule)

		// Oversight over all swap requests
		admin.GET("/swaps", controllers.AdminGetSwaps)
	}

	return r
}
