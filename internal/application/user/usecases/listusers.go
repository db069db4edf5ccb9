package usecases

import (
	"context"

	"helpdesk/internal/application/user/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type ListUsersQuery struct {
	Actor    *access.Actor
	Role     string
	Page     int
	PageSize int
}

type ListUsersResult struct {
	Users    []*dto.UserResponse
	Total    int64
	Page     int
	PageSize int
}

type ListUsersExecutor interface {
	Execute(ctx context.Context, query ListUsersQuery) (*ListUsersResult, error)
}

type ListUsersUseCase struct {
	userRepo user.Repository
	policy   *access.Policy
	logger   logger.Interface
}

func NewListUsersUseCase(userRepo user.Repository, policy *access.Policy, logger logger.Interface) *ListUsersUseCase {
	return &ListUsersUseCase{userRepo: userRepo, policy: policy, logger: logger}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, query ListUsersQuery) (*ListUsersResult, error) {
	if err := uc.policy.Decide(query.Actor, access.UserList, access.Resource{}).Err(); err != nil {
		return nil, err
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)
	filter := user.ListFilter{Page: p.Page, PageSize: p.PageSize}
	if query.Role != "" {
		role, err := vo.ParseRole(query.Role)
		if err != nil {
			return nil, errors.NewValidationError("Invalid role. Must be user, agent or admin")
		}
		filter.Role = &role
	}

	users, total, err := uc.userRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, err
	}

	return &ListUsersResult{
		Users:    dto.ToUserResponses(users),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
