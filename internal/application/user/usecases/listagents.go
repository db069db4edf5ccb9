package usecases

import (
	"context"

	"helpdesk/internal/application/user/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/shared/logger"
)

// ListAgentsUseCase returns every account a ticket can be assigned to.
type ListAgentsUseCase struct {
	userRepo user.Repository
	policy   *access.Policy
	logger   logger.Interface
}

func NewListAgentsUseCase(userRepo user.Repository, policy *access.Policy, logger logger.Interface) *ListAgentsUseCase {
	return &ListAgentsUseCase{userRepo: userRepo, policy: policy, logger: logger}
}

func (uc *ListAgentsUseCase) Execute(ctx context.Context, actor *access.Actor) ([]*dto.UserResponse, error) {
	if err := uc.policy.Decide(actor, access.UserListAgents, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	users, _, err := uc.userRepo.List(ctx, user.ListFilter{Roles: []vo.Role{vo.RoleAgent, vo.RoleAdmin}})
	if err != nil {
		uc.logger.Errorw("failed to list agents", "error", err)
		return nil, err
	}
	return dto.ToUserResponses(users), nil
}
