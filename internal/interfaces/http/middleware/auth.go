package middleware

import (
	"github.com/gin-gonic/gin"

	"helpdesk/internal/domain/access"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type AuthMiddleware struct {
	provider auth.Provider
	logger   logger.Interface
}

func NewAuthMiddleware(provider auth.Provider, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		provider: provider,
		logger:   logger,
	}
}

// RequireAuth resolves the caller through the configured provider and stores
// the user id and role on the context. Unauthenticated requests are rejected
// with 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := m.provider.Resolve(c.Request.Context(), c.Request)
		if err != nil {
			m.logger.Debugw("authentication failed", "path", c.Request.URL.Path, "error", err)
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth sets the actor when a valid credential is present and lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, err := m.provider.Resolve(c.Request.Context(), c.Request); err == nil {
			setActor(c, actor)
		}
		c.Next()
	}
}

func setActor(c *gin.Context, actor *access.Actor) {
	c.Set(constants.ContextKeyUserID, actor.ID)
	c.Set(constants.ContextKeyUserRole, actor.Role.String())
}

// CurrentActor rebuilds the actor stored by the auth middleware. It returns
// nil for anonymous requests.
func CurrentActor(c *gin.Context) *access.Actor {
	id, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return nil
	}
	userID, ok := id.(uint)
	if !ok || userID == 0 {
		return nil
	}
	role := vo.RoleUser
	if r, ok := c.Get(constants.ContextKeyUserRole); ok {
		if s, ok := r.(string); ok {
			role = vo.Role(s)
		}
	}
	return &access.Actor{ID: userID, Role: role}
}
