package routes

import (
	"github.com/gin-gonic/gin"

	departmenthandlers "helpdesk/internal/interfaces/http/handlers/department"
	"helpdesk/internal/interfaces/http/middleware"
)

type DepartmentRouteConfig struct {
	DepartmentHandler *departmenthandlers.Handler
	AuthMiddleware    *middleware.AuthMiddleware
}

func SetupDepartmentRoutes(api *gin.RouterGroup, cfg *DepartmentRouteConfig) {
	departments := api.Group("/departments")
	departments.Use(cfg.AuthMiddleware.RequireAuth())
	{
		departments.GET("", cfg.DepartmentHandler.List)
		departments.POST("", cfg.DepartmentHandler.Create)
		departments.GET("/:id", cfg.DepartmentHandler.Get)
		departments.PUT("/:id", cfg.DepartmentHandler.Update)
		departments.DELETE("/:id", cfg.DepartmentHandler.Delete)
	}
}
