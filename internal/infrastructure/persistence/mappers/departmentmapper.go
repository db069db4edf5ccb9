package mappers

import (
	"helpdesk/internal/domain/department"
	"helpdesk/internal/infrastructure/persistence/models"
)

type DepartmentMapper interface {
	ToEntity(row *models.DepartmentRow) (*department.Department, error)
	ToModel(entity *department.Department) *models.DepartmentModel
}

type DepartmentMapperImpl struct{}

func NewDepartmentMapper() DepartmentMapper {
	return &DepartmentMapperImpl{}
}

func (m *DepartmentMapperImpl) ToEntity(row *models.DepartmentRow) (*department.Department, error) {
	return department.ReconstructDepartment(row.ID, row.Name, row.TicketCount, row.CreatedAt, row.UpdatedAt)
}

func (m *DepartmentMapperImpl) ToModel(entity *department.Department) *models.DepartmentModel {
	return &models.DepartmentModel{
		ID:        entity.ID(),
		Name:      entity.Name(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}
