package http

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"helpdesk/internal/domain/access"
	ticketDomain "helpdesk/internal/domain/ticket"
	"helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/infrastructure/config"
	"helpdesk/internal/infrastructure/email"
	"helpdesk/internal/infrastructure/kvstore"
	"helpdesk/internal/infrastructure/permission"
	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/infrastructure/storage"
	"helpdesk/internal/infrastructure/token"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/services/markdown"
)

const (
	tokenStoreFile = "tokens.json"
	rateLimitFile  = "rate_limits.json"
)

// ============================================================
// Section 1: Infrastructure
// ============================================================

// initInfrastructure builds the token store, rate limiter, role policy,
// auth provider, file storage and notifier.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	c.repos = newRepositories(c.db, log)

	if err := c.initStores(); err != nil {
		return err
	}

	enforcer, err := permission.NewEnforcer(c.db, log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if _, err := enforcer.SeedDefaults(access.DefaultGrants()); err != nil {
		return fmt.Errorf("failed to seed role permissions: %w", err)
	}
	c.enforcer = enforcer
	c.policy = access.NewPolicy(enforcer)

	c.hasher = auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)

	provider, err := newAuthProvider(cfg, c.tokens, c.repos.userRepo, log)
	if err != nil {
		return err
	}
	c.authProvider = provider
	log.Infow("auth provider selected", "provider", provider.Name())

	files, err := storage.NewLocalStorage(cfg.Uploads.Dir, log)
	if err != nil {
		return fmt.Errorf("failed to prepare upload directory: %w", err)
	}
	c.files = files

	c.notifier = newNotifier(cfg, log)
	c.renderer = markdown.NewMarkdownService()

	c.authMiddleware = middleware.NewAuthMiddleware(c.authProvider, log)
	c.rateLimiter = middleware.NewRateLimiter(c.limiter, log)

	return nil
}

// initStores picks the token store and rate limiter backend. The file
// backend keeps one JSON document per store under storage.data_dir.
func (c *Container) initStores() error {
	cfg := c.cfg
	log := c.log
	ttl := token.WithTTL(cfg.Auth.TokenTTL())

	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
		c.tokens = token.NewRedisStore(client, log, ttl)
		c.limiter = ratelimit.NewRedisRateLimiter(client)
	default:
		tokenKV, err := kvstore.NewJSONFile[token.Record](filepath.Join(cfg.Storage.DataDir, tokenStoreFile))
		if err != nil {
			return fmt.Errorf("failed to open token store: %w", err)
		}
		limitKV, err := kvstore.NewJSONFile[[]int64](filepath.Join(cfg.Storage.DataDir, rateLimitFile))
		if err != nil {
			return fmt.Errorf("failed to open rate limit store: %w", err)
		}
		c.tokens = token.NewFileStore(tokenKV, log, ttl)
		c.limiter = ratelimit.NewFileRateLimiter(limitKV, log)
	}

	log.Infow("state backend ready", "backend", cfg.Storage.Backend, "data_dir", cfg.Storage.DataDir)
	return nil
}

func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

func newAuthProvider(cfg *config.Config, tokens token.Store, users auth.UserFinder, log logger.Interface) (auth.Provider, error) {
	switch cfg.Auth.Provider {
	case config.AuthProviderSession:
		provider, err := auth.NewSessionProvider(auth.SessionOptions{
			CookieName: cfg.Auth.Session.CookieName,
			Secret:     cfg.Auth.Session.Secret,
			TTL:        cfg.Auth.TokenTTL(),
			Secure:     cfg.Auth.Session.Secure,
			Domain:     cfg.Auth.Session.Domain,
		}, users, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create session provider: %w", err)
		}
		return provider, nil
	default:
		return auth.NewBearerTokenProvider(tokens, users, log), nil
	}
}

func newNotifier(cfg *config.Config, log logger.Interface) ticketDomain.Notifier {
	if !cfg.Email.Enabled() {
		log.Infow("SMTP not configured, ticket notifications disabled")
		return email.NopNotifier{}
	}
	smtp := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	})
	return email.NewTicketNotifier(smtp, cfg.Server.BaseURL, log)
}

// rateRule converts a configured limit into a limiter rule.
func rateRule(r config.LimitRule) ratelimit.Rule {
	return ratelimit.Rule{Max: r.Max, Window: r.WindowDuration()}
}
