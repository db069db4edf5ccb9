package usecases

import (
	"context"

	"helpdesk/internal/application/department/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/department"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type UpdateDepartmentUseCase struct {
	departmentRepo department.Repository
	policy         *access.Policy
	logger         logger.Interface
}

func NewUpdateDepartmentUseCase(departmentRepo department.Repository, policy *access.Policy, logger logger.Interface) *UpdateDepartmentUseCase {
	return &UpdateDepartmentUseCase{departmentRepo: departmentRepo, policy: policy, logger: logger}
}

func (uc *UpdateDepartmentUseCase) Execute(ctx context.Context, actor *access.Actor, id uint, name string) (*dto.DepartmentResponse, error) {
	if err := uc.policy.Decide(actor, access.DepartmentManage, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	d, err := uc.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err = validateName(name)
	if err != nil {
		return nil, err
	}
	if err := ensureUnique(ctx, uc.departmentRepo, name, id); err != nil {
		return nil, err
	}

	if err := d.Rename(name); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.departmentRepo.Update(ctx, d); err != nil {
		uc.logger.Errorw("failed to update department", "department_id", id, "error", err)
		return nil, err
	}

	uc.logger.Infow("department updated", "department_id", id, "updated_by", actor.ID)
	return dto.ToDepartmentResponse(d, false), nil
}
