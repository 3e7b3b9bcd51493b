package router

import (
	"github.com/gin-gonic/gin"

	"syncflow.app/server/internal/http/handler"
)

func ProjectRouter(rg *gin.RouterGroup, h *handler.ProjectHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
}
