package usecases

import (
	"context"

	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/department"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type DeleteDepartmentUseCase struct {
	departmentRepo department.Repository
	policy         *access.Policy
	logger         logger.Interface
}

func NewDeleteDepartmentUseCase(departmentRepo department.Repository, policy *access.Policy, logger logger.Interface) *DeleteDepartmentUseCase {
	return &DeleteDepartmentUseCase{departmentRepo: departmentRepo, policy: policy, logger: logger}
}

func (uc *DeleteDepartmentUseCase) Execute(ctx context.Context, actor *access.Actor, id uint) error {
	if err := uc.policy.Decide(actor, access.DepartmentManage, access.Resource{}).Err(); err != nil {
		return err
	}
	d, err := uc.departmentRepo.GetByIDWithCount(ctx, id)
	if err != nil {
		return err
	}
	if !d.CanDelete() {
		return errors.NewConflictError("Cannot delete department with existing tickets. Please reassign or resolve all tickets first.")
	}

	// The repository re-checks inside its transaction.
	if err := uc.departmentRepo.Delete(ctx, id); err != nil {
		uc.logger.Errorw("failed to delete department", "department_id", id, "error", err)
		return err
	}

	uc.logger.Infow("department deleted", "department_id", id, "deleted_by", actor.ID)
	return nil
}
