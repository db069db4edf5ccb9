package usecases

import (
	"context"
	"time"

	"helpdesk/internal/application/user/dto"
	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

// AttemptLimiter is the part of the rate limiter login needs.
type AttemptLimiter interface {
	CheckAndRecord(ctx context.Context, identifier, action string, rule ratelimit.Rule, record bool) (ratelimit.Result, error)
	Record(ctx context.Context, identifier, action string) error
}

type LoginCommand struct {
	Email    string
	Password string
	ClientIP string
}

type LoginExecutor interface {
	Execute(ctx context.Context, cmd LoginCommand) (*dto.UserResponse, error)
}

// LoginUseCase verifies credentials. Only failed attempts are counted
// against the client address; the limit is checked before anything else.
type LoginUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	limiter  AttemptLimiter
	rule     ratelimit.Rule
	logger   logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	limiter AttemptLimiter,
	rule ratelimit.Rule,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		limiter:  limiter,
		rule:     rule,
		logger:   logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*dto.UserResponse, error) {
	res, err := uc.limiter.CheckAndRecord(ctx, cmd.ClientIP, constants.ActionLogin, uc.rule, false)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to check rate limit")
	}
	if !res.Allowed {
		uc.logger.Warnw("login rate limit exceeded", "ip", cmd.ClientIP, "reset_at", res.ResetAt.Format(time.RFC3339))
		return nil, errors.NewRateLimitError("Too many login attempts. Please try again later.", res.ResetAt, 0)
	}

	if cmd.Email == "" || cmd.Password == "" {
		return nil, errors.NewValidationError("Email and password are required")
	}

	u, err := uc.userRepo.GetByEmail(ctx, vo.NormalizeEmail(cmd.Email))
	if err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}
	if u == nil || uc.hasher.Verify(cmd.Password, u.PasswordHash()) != nil {
		if err := uc.limiter.Record(ctx, cmd.ClientIP, constants.ActionLogin); err != nil {
			uc.logger.Errorw("failed to record login attempt", "ip", cmd.ClientIP, "error", err)
		}
		uc.logger.Infow("login failed", "ip", cmd.ClientIP)
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	uc.logger.Infow("user logged in", "user_id", u.ID())
	return dto.ToUserResponse(u), nil
}
