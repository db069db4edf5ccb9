package usecases

import (
	"context"
	"strings"

	"helpdesk/internal/application/user/dto"
	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

type RegisterExecutor interface {
	Execute(ctx context.Context, cmd RegisterCommand) (*dto.UserResponse, error)
}

// RegisterUseCase creates a plain user account. Staff accounts are created
// by an admin through the users API.
type RegisterUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	logger   logger.Interface
}

func NewRegisterUseCase(userRepo user.Repository, hasher user.PasswordHasher, logger logger.Interface) *RegisterUseCase {
	return &RegisterUseCase{userRepo: userRepo, hasher: hasher, logger: logger}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*dto.UserResponse, error) {
	if strings.TrimSpace(cmd.Name) == "" || cmd.Email == "" || cmd.Password == "" {
		return nil, errors.NewValidationError("Name, email and password are required")
	}
	email, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewValidationError("Invalid email format")
	}
	if len(cmd.Password) < user.MinPasswordLength {
		return nil, errors.NewValidationError("Password must be at least 6 characters long")
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email.String(), 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.NewConflictError("Email already registered")
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create user")
	}
	u, err := user.NewUser(cmd.Name, email, hash, vo.RoleUser)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		uc.logger.Errorw("failed to create user", "email", email.String(), "error", err)
		return nil, err
	}

	uc.logger.Infow("user registered", "user_id", u.ID())
	return dto.ToUserResponse(u), nil
}
