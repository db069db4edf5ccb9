package usecases

import (
	"context"

	"helpdesk/internal/application/department/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/department"
	"helpdesk/internal/shared/logger"
)

type GetDepartmentUseCase struct {
	departmentRepo department.Repository
	policy         *access.Policy
	logger         logger.Interface
}

func NewGetDepartmentUseCase(departmentRepo department.Repository, policy *access.Policy, logger logger.Interface) *GetDepartmentUseCase {
	return &GetDepartmentUseCase{departmentRepo: departmentRepo, policy: policy, logger: logger}
}

func (uc *GetDepartmentUseCase) Execute(ctx context.Context, actor *access.Actor, id uint) (*dto.DepartmentResponse, error) {
	if err := uc.policy.Decide(actor, access.DepartmentRead, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	d, err := uc.departmentRepo.GetByIDWithCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToDepartmentResponse(d, true), nil
}
