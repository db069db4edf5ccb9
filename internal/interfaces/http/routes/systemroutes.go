package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"helpdesk/internal/interfaces/http/handlers"
)

// SetupSystemRoutes registers the service info, health and API docs endpoints.
func SetupSystemRoutes(engine *gin.Engine, api *gin.RouterGroup, health *handlers.HealthHandler) {
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api.GET("", health.Info)
	api.GET("/health", health.HealthCheck)
}
