package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"helpdesk/internal/domain/access"
	ticketDomain "helpdesk/internal/domain/ticket"
	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/infrastructure/permission"
	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/infrastructure/storage"
	"helpdesk/internal/infrastructure/token"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/services/markdown"
)

// Container holds the infrastructure components, repositories, use cases
// and handlers, and wires them together. Shutdown releases what it opened.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter

	// Shared services
	tokens       token.Store
	limiter      ratelimit.RateLimiter
	enforcer     *permission.Enforcer
	policy       *access.Policy
	hasher       *auth.BcryptPasswordHasher
	authProvider auth.Provider
	notifier     ticketDomain.Notifier
	files        storage.FileStorage
	renderer     markdown.MarkdownService
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := middleware.TrustProxies(c.engine, cfg.Server.TrustedProxies, cfg.Server.RemoteIPHeaders); err != nil {
		return nil, err
	}

	// Section 1: Infrastructure - stores, policy, auth, storage, email
	if err := c.initInfrastructure(); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 2: Use cases
	c.initUseCases()

	// Section 3: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

// Shutdown closes the redis client when one was opened.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
