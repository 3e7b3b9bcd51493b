package router

import (
	"github.com/gin-gonic/gin"

	"syncflow.app/server/internal/http/handler"
)

func EventRouter(rg *gin.RouterGroup, h *handler.EventsHandler) {
	rg.GET("", h.Stream)
}
