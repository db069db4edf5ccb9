package usecases

import (
	"context"

	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

// TokenRevoker drops every token of a deleted account.
type TokenRevoker interface {
	RevokeUser(ctx context.Context, userID uint) error
}

type DeleteUserUseCase struct {
	userRepo user.Repository
	tokens   TokenRevoker
	policy   *access.Policy
	logger   logger.Interface
}

// NewDeleteUserUseCase accepts a nil tokens when sessions are cookie based.
func NewDeleteUserUseCase(
	userRepo user.Repository,
	tokens TokenRevoker,
	policy *access.Policy,
	logger logger.Interface,
) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		policy:   policy,
		logger:   logger,
	}
}

func (uc *DeleteUserUseCase) Execute(ctx context.Context, actor *access.Actor, userID uint) error {
	if err := uc.policy.Decide(actor, access.UserManage, access.Resource{SubjectUserID: userID}).Err(); err != nil {
		return err
	}
	if actor.ID == userID {
		return errors.NewValidationError("You cannot delete your own account")
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		uc.logger.Errorw("failed to delete user", "user_id", userID, "error", err)
		return err
	}

	if uc.tokens != nil {
		if err := uc.tokens.RevokeUser(ctx, userID); err != nil {
			uc.logger.Warnw("failed to revoke tokens of deleted user", "user_id", userID, "error", err)
		}
	}

	uc.logger.Infow("user deleted", "user_id", userID, "deleted_by", actor.ID)
	return nil
}
