package usecases

import (
	"context"
	"strings"

	"helpdesk/internal/application/user/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type CreateUserCommand struct {
	Actor    *access.Actor
	Name     string
	Email    string
	Password string
	// Role defaults to user when empty.
	Role string
}

type CreateUserExecutor interface {
	Execute(ctx context.Context, cmd CreateUserCommand) (*dto.UserResponse, error)
}

type CreateUserUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	policy   *access.Policy
	logger   logger.Interface
}

func NewCreateUserUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	policy *access.Policy,
	logger logger.Interface,
) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		policy:   policy,
		logger:   logger,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (*dto.UserResponse, error) {
	if err := uc.policy.Decide(cmd.Actor, access.UserManage, access.Resource{}).Err(); err != nil {
		return nil, err
	}

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
	role := vo.RoleUser
	if cmd.Role != "" {
		if role, err = vo.ParseRole(cmd.Role); err != nil {
			return nil, errors.NewValidationError("Invalid role. Must be user, agent or admin")
		}
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
	u, err := user.NewUser(cmd.Name, email, hash, role)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		uc.logger.Errorw("failed to create user", "email", email.String(), "error", err)
		return nil, err
	}

	uc.logger.Infow("user created", "user_id", u.ID(), "role", role.String(), "created_by", cmd.Actor.ID)
	return dto.ToUserResponse(u), nil
}
