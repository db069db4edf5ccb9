package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/interfaces/http/routes"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/goroutine"
	"helpdesk/internal/shared/logger"

	_ "helpdesk/docs"
)

// Router represents the HTTP router configuration.
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies.
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, cfg, log)
	if err != nil {
		return nil, err
	}
	c.engine.MaxMultipartMemory = cfg.Uploads.MaxSize
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	cfg := r.cfg

	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	api := r.engine.Group("/api")
	api.Use(r.rateLimiter.Limit(constants.ActionAPI, rateRule(cfg.RateLimit.API), middleware.ByClientIP))
	if r.authProvider.Name() == auth.ProviderSession {
		api.Use(middleware.CSRF())
	}

	routes.SetupSystemRoutes(r.engine, api, r.hdlrs.healthHandler)

	routes.SetupAuthRoutes(api, &routes.AuthRouteConfig{
		AuthHandler:    r.hdlrs.authHandler,
		AuthMiddleware: r.authMiddleware,
		RateLimiter:    r.rateLimiter,
		LoginRule:      rateRule(cfg.RateLimit.Login),
	})

	routes.SetupUserRoutes(api, &routes.UserRouteConfig{
		UserHandler:    r.hdlrs.userHandler,
		NoteHandler:    r.hdlrs.noteHandler,
		AuthMiddleware: r.authMiddleware,
	})

	routes.SetupDepartmentRoutes(api, &routes.DepartmentRouteConfig{
		DepartmentHandler: r.hdlrs.departmentHandler,
		AuthMiddleware:    r.authMiddleware,
	})

	routes.SetupTicketRoutes(api, &routes.TicketRouteConfig{
		TicketHandler:     r.hdlrs.ticketHandler,
		NoteHandler:       r.hdlrs.noteHandler,
		AttachmentHandler: r.hdlrs.attachmentHandler,
		AuthMiddleware:    r.authMiddleware,
		RateLimiter:       r.rateLimiter,
		UploadRule:        rateRule(cfg.RateLimit.Upload),
	})
}

// StartSweeper periodically evicts expired tokens and stale rate limit
// entries until ctx is cancelled. The returned channel closes on exit.
func (r *Router) StartSweeper(ctx context.Context) <-chan struct{} {
	interval := time.Duration(r.cfg.Storage.CleanupInterval) * time.Second
	if interval <= 0 {
		interval = time.Hour
	}

	return goroutine.Every(ctx, r.log, "state-sweeper", interval, func(ctx context.Context) {
		tokens, err := r.tokens.CleanExpired(ctx)
		if err != nil {
			r.log.Warnw("failed to clean expired tokens", "error", err)
		}
		keys, err := r.limiter.Cleanup(ctx)
		if err != nil {
			r.log.Warnw("failed to clean rate limit entries", "error", err)
		}
		if tokens > 0 || keys > 0 {
			r.log.Infow("state sweep completed", "tokens_removed", tokens, "rate_limit_keys_removed", keys)
		}
	})
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server.
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
