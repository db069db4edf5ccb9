package usecases

import (
	"context"
	"strings"
	"unicode/utf8"

	"helpdesk/internal/application/department/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/department"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type CreateDepartmentUseCase struct {
	departmentRepo department.Repository
	policy         *access.Policy
	logger         logger.Interface
}

func NewCreateDepartmentUseCase(departmentRepo department.Repository, policy *access.Policy, logger logger.Interface) *CreateDepartmentUseCase {
	return &CreateDepartmentUseCase{departmentRepo: departmentRepo, policy: policy, logger: logger}
}

func (uc *CreateDepartmentUseCase) Execute(ctx context.Context, actor *access.Actor, name string) (*dto.DepartmentResponse, error) {
	if err := uc.policy.Decide(actor, access.DepartmentManage, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if err := ensureUnique(ctx, uc.departmentRepo, name, 0); err != nil {
		return nil, err
	}

	d, err := department.NewDepartment(name)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.departmentRepo.Create(ctx, d); err != nil {
		uc.logger.Errorw("failed to create department", "name", name, "error", err)
		return nil, err
	}

	uc.logger.Infow("department created", "department_id", d.ID(), "created_by", actor.ID)
	return dto.ToDepartmentResponse(d, false), nil
}

func ensureUnique(ctx context.Context, repo department.Repository, name string, excludeID uint) error {
	exists, err := repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errors.NewConflictError("Department name already exists")
	}
	return nil
}

// validateName returns the trimmed name or a validation error worded for
// API clients.
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		return "", errors.NewValidationError("Department name is required")
	case n < department.MinNameLength:
		return "", errors.NewValidationError("Department name must be at least 2 characters long")
	case n > department.MaxNameLength:
		return "", errors.NewValidationError("Department name cannot exceed 100 characters")
	}
	return name, nil
}
