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

// UpdateUserCommand carries optional fields. A nil field is left unchanged.
type UpdateUserCommand struct {
	Actor    *access.Actor
	UserID   uint
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

type UpdateUserExecutor interface {
	Execute(ctx context.Context, cmd UpdateUserCommand) (*dto.UserResponse, error)
}

type UpdateUserUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	policy   *access.Policy
	logger   logger.Interface
}

func NewUpdateUserUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	policy *access.Policy,
	logger logger.Interface,
) *UpdateUserUseCase {
	return &UpdateUserUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		policy:   policy,
		logger:   logger,
	}
}

func (uc *UpdateUserUseCase) Execute(ctx context.Context, cmd UpdateUserCommand) (*dto.UserResponse, error) {
	if err := uc.policy.Decide(cmd.Actor, access.UserUpdate, access.Resource{SubjectUserID: cmd.UserID}).Err(); err != nil {
		return nil, err
	}
	if cmd.Role != nil {
		if err := uc.policy.Decide(cmd.Actor, access.UserChangeRole, access.Resource{SubjectUserID: cmd.UserID}).Err(); err != nil {
			return nil, errors.NewForbiddenError("Only admin can change user roles")
		}
	}

	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Name == nil && cmd.Email == nil && cmd.Password == nil && cmd.Role == nil {
		return nil, errors.NewValidationError("No valid fields to update")
	}

	if cmd.Name != nil {
		if strings.TrimSpace(*cmd.Name) == "" {
			return nil, errors.NewValidationError("Name cannot be empty")
		}
		if err := u.Rename(*cmd.Name); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if cmd.Email != nil {
		email, err := vo.NewEmail(*cmd.Email)
		if err != nil {
			return nil, errors.NewValidationError("Invalid email format")
		}
		exists, err := uc.userRepo.ExistsByEmail(ctx, email.String(), u.ID())
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errors.NewConflictError("Email already exists")
		}
		if err := u.ChangeEmail(email); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if cmd.Password != nil {
		if len(*cmd.Password) < user.MinPasswordLength {
			return nil, errors.NewValidationError("Password must be at least 6 characters long")
		}
		hash, err := uc.hasher.Hash(*cmd.Password)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to update user")
		}
		if err := u.ChangePasswordHash(hash); err != nil {
			return nil, errors.Wrap(err, "Failed to update user")
		}
	}

	if cmd.Role != nil {
		role, err := vo.ParseRole(*cmd.Role)
		if err != nil {
			return nil, errors.NewValidationError("Invalid role. Must be user, agent or admin")
		}
		if err := u.ChangeRole(role); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user", "user_id", u.ID(), "error", err)
		return nil, err
	}

	uc.logger.Infow("user updated", "user_id", u.ID(), "updated_by", cmd.Actor.ID)
	return dto.ToUserResponse(u), nil
}
