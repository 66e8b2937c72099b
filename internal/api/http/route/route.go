package route

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"legacy-scheduler/internal/api/http/handler"
	"legacy-scheduler/internal/api/http/middleware"
	"legacy-scheduler/internal/config"
	"legacy-scheduler/internal/ratelimit"
)

func SetupRouter(
	log *zap.Logger,
	cfg *config.Config,
	limiter ratelimit.Limiter,
	healthHdl HealthHandler,
	messageHdl MessageHandler,
	recipientHdl RecipientHandler,
	sweepHdl SweepHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard

	router := gin.Default()

	// middleware
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.RequestTimeout(cfg.HTTPServer.Timeout.Request))
	router.Use(middleware.CORS(cfg.HTTPServer.CORS))

	if cfg.HTTPServer.RateLimit.Enabled {
		router.Use(middleware.RateLimit(log, limiter))
	}

	router.HandleMethodNotAllowed = true
	router.NoMethod(handler.NoMethod)
	router.NoRoute(handler.NoRoute)

	basePath := router.Group(cfg.HTTPServer.BasePath)

	docsPath := basePath.Group("/docs")
	RegisterDock(docsPath)

	healthPath := basePath.Group("/health")
	RegisterHealth(healthPath, healthHdl)

	messagePath := basePath.Group("/messages")
	RegisterMessageRoutes(messagePath, messageHdl)

	recipientPath := basePath.Group("/recipients")
	RegisterRecipientRoutes(recipientPath, recipientHdl)

	sweepPath := basePath.Group("/sweep")
	RegisterSweepRoutes(sweepPath, sweepHdl)

	return router
}
