package router

import (
	"github.com/gin-gonic/gin"

	"syncflow.app/server/internal/http/handler"
	"syncflow.app/server/internal/http/middleware"
	"syncflow.app/server/internal/service"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, authService service.AuthService) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
	rg.POST("/forgot-password", h.ForgotPassword)
	rg.POST("/reset-password", h.ResetPassword)
	rg.GET("/me", middleware.RequireAuth(authService), h.Me)
}
