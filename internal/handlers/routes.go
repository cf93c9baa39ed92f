package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crewdesk-api/internal/metrics"
	"github.com/yukikurage/crewdesk-api/internal/middleware"
)

// Handlers groups every resource handler mounted by RegisterRoutes.
type Handlers struct {
	Auth         *AuthHandler
	Directory    *DirectoryHandler
	Task         *TaskHandler
	Notification *NotificationHandler
}

// RegisterRoutes mounts the health check, metrics and API routes on r. The
// session middleware must already be installed.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Crewdesk API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(), h.Auth.GetCurrentUser)
		}

		// Directory routes (protected)
		directory := api.Group("/directory")
		directory.Use(middleware.RequireAuth())
		{
			directory.GET("/teammates", h.Directory.ListTeammates)
			directory.GET("/assignees", h.Directory.ListAssignees)
			directory.POST("/teammates", h.Directory.Onboard)
			directory.PATCH("/teammates/:id", h.Directory.UpdateTeammate)
			directory.POST("/teammates/:id/activate", h.Directory.ActivateTeammate)
			directory.POST("/teammates/:id/deactivate", h.Directory.DeactivateTeammate)
			directory.POST("/import", h.Directory.Import)
			directory.GET("/export", h.Directory.Export)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", h.Task.ListTasks)
			tasks.POST("", h.Task.CreateTask)
			tasks.POST("/distill", h.Task.DistillTask)
			tasks.GET("/:id", h.Task.GetTask)
			tasks.POST("/:id/assign", h.Task.AssignTask)
			tasks.POST("/:id/steps/:step_id/toggle", h.Task.ToggleStep)
			tasks.POST("/:id/comments", h.Task.AddComment)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", h.Notification.ListNotifications)
			notifications.GET("/unread-count", h.Notification.UnreadCount)
			notifications.POST("/:id/read", h.Notification.MarkRead)
			notifications.POST("/read-all", h.Notification.MarkAllRead)
		}
	}
}
