package router

import (
	"github.com/gin-gonic/gin"

	"syncflow.app/server/internal/http/handler"
	"syncflow.app/server/internal/http/middleware"
	"syncflow.app/server/internal/realtime"
	"syncflow.app/server/internal/service"
)

type RouterConfig struct {
	DashboardURL string
	IsProduction bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, hub *realtime.Hub, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authService := services.Auth()

	v1 := router.Group("/api/v1")
	{
		authHandler := handler.NewAuthHandler(authService)
		AuthRouter(v1.Group("/auth"), authHandler, authService)

		protected := v1.Group("")
		protected.Use(middleware.RequireAuth(authService))
		{
			projectHandler := handler.NewProjectHandler(services.Projects())
			ProjectRouter(protected.Group("/projects"), projectHandler)

			issueHandler := handler.NewIssueHandler(services.Issues())
			IssueRouter(protected.Group("/issues"), issueHandler)
		}

		// The broadcast channel carries no authorization; clients filter
		// events themselves.
		eventsHandler := handler.NewEventsHandler(hub)
		EventRouter(v1.Group("/events"), eventsHandler)
	}
}
