package routes

import (
	"github.com/gin-gonic/gin"

	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/interfaces/http/handlers"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/constants"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
	LoginRule      ratelimit.Rule
}

// SetupAuthRoutes configures authentication routes. Login failures are
// counted by the login use case; the middleware only reports the quota.
func SetupAuthRoutes(api *gin.RouterGroup, cfg *AuthRouteConfig) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login",
			cfg.RateLimiter.Inspect(constants.ActionLogin, cfg.LoginRule, middleware.ByClientIP),
			cfg.AuthHandler.Login)

		auth.POST("/logout", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Logout)
		auth.GET("/profile", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Profile)
	}
}
