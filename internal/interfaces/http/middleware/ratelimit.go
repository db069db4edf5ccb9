package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// KeyFunc picks the rate limit identifier for a request. An empty identifier
// skips limiting.
type KeyFunc func(c *gin.Context) string

// ByClientIP identifies callers by gin's client address, which only honours
// forwarding headers sent by a trusted proxy (see TrustProxies).
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// TrustProxies limits which peers may set the client address through
// headers. With no proxies the connection address is always used.
func TrustProxies(engine *gin.Engine, proxies, headers []string) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := engine.SetTrustedProxies(proxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}
	if len(headers) > 0 {
		engine.RemoteIPHeaders = headers
	}
	return nil
}

// ByUser identifies callers by the authenticated user id and must run after
// RequireAuth.
func ByUser(c *gin.Context) string {
	if actor := CurrentActor(c); actor != nil {
		return strconv.FormatUint(uint64(actor.ID), 10)
	}
	return ""
}

// RateLimiter adapts the sliding window limiter to gin. If the backing store
// fails, requests are let through and the error is logged.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		logger:  logger,
	}
}

// Limit counts every request against rule and rejects with 429 once the
// window is full.
func (rl *RateLimiter) Limit(action string, rule ratelimit.Rule, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := key(c)
		if id == "" || rule.Max <= 0 {
			c.Next()
			return
		}

		res, err := rl.limiter.CheckAndRecord(c.Request.Context(), id, action, rule, true)
		if err != nil {
			rl.logger.Errorw("rate limiter unavailable", "action", action, "error", err)
			c.Next()
			return
		}
		setRateLimitHeaders(c, res)

		if !res.Allowed {
			utils.ErrorResponseWithError(c, errors.NewRateLimitError("Too many requests. Please try again later.", res.ResetAt, 0))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Inspect only reports the current quota in response headers. The handler
// decides whether the attempt counts.
func (rl *RateLimiter) Inspect(action string, rule ratelimit.Rule, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := key(c)
		if id == "" {
			c.Next()
			return
		}

		res, err := rl.limiter.Remaining(c.Request.Context(), id, action, rule)
		if err != nil {
			rl.logger.Warnw("failed to read rate limit", "action", action, "error", err)
			c.Next()
			return
		}
		setRateLimitHeaders(c, res)
		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, res ratelimit.Result) {
	c.Header(constants.HeaderRateLimitLimit, strconv.Itoa(res.Limit))
	c.Header(constants.HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
	reset := res.ResetAt
	if reset.IsZero() {
		reset = time.Now()
	}
	c.Header(constants.HeaderRateLimitReset, strconv.FormatInt(reset.Unix(), 10))
}
