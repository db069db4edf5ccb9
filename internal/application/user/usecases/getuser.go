package usecases

import (
	"context"

	"helpdesk/internal/application/user/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/logger"
)

type GetUserUseCase struct {
	userRepo user.Repository
	policy   *access.Policy
	logger   logger.Interface
}

func NewGetUserUseCase(userRepo user.Repository, policy *access.Policy, logger logger.Interface) *GetUserUseCase {
	return &GetUserUseCase{userRepo: userRepo, policy: policy, logger: logger}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, actor *access.Actor, userID uint) (*dto.UserResponse, error) {
	if err := uc.policy.Decide(actor, access.UserRead, access.Resource{SubjectUserID: userID}).Err(); err != nil {
		return nil, err
	}
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponse(u), nil
}
