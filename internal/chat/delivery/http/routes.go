package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	rg.POST("/upload", h.Upload)
	rg.POST("/chat", h.Chat)
	rg.GET("/viz/:name", h.Visualization)
	rg.POST("/session/clear", h.ClearSession)
}
