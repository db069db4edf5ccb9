package usecases

import (
	"context"

	"helpdesk/internal/application/department/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/department"
	"helpdesk/internal/shared/logger"
)

type ListDepartmentsUseCase struct {
	departmentRepo department.Repository
	policy         *access.Policy
	logger         logger.Interface
}

func NewListDepartmentsUseCase(departmentRepo department.Repository, policy *access.Policy, logger logger.Interface) *ListDepartmentsUseCase {
	return &ListDepartmentsUseCase{departmentRepo: departmentRepo, policy: policy, logger: logger}
}

// Execute lists departments by name. withCounts adds each department's
// ticket count.
func (uc *ListDepartmentsUseCase) Execute(ctx context.Context, actor *access.Actor, withCounts bool) ([]*dto.DepartmentResponse, error) {
	if err := uc.policy.Decide(actor, access.DepartmentRead, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	departments, err := uc.departmentRepo.List(ctx, withCounts)
	if err != nil {
		uc.logger.Errorw("failed to list departments", "error", err)
		return nil, err
	}
	return dto.ToDepartmentResponses(departments, withCounts), nil
}
