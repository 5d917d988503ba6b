package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	chatHTTP "datachat/internal/chat/delivery/http"
)

func (srv *HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(srv.mw.CORS())

	srv.l.Infof(context.Background(), "CORS mode: %s", srv.environment)
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers the /api surface. Health is exempt from
// rate limiting so probes never get throttled.
func (srv *HTTPServer) registerDomainRoutes() {
	api := srv.gin.Group("/api")
	api.GET("/health", srv.healthCheck)

	limited := api.Group("", srv.mw.RateLimit())
	chatHTTP.RegisterRoutes(limited, srv.chatHandler)

	srv.l.Infof(context.Background(), "Chat domain routes registered under /api")
}
