package repository

import (
	"context"

	"gorm.io/gorm"

	"helpdesk/internal/domain/department"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/db"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/mapper"
)

const (
	errDepartmentNotFound = "Department not found"
	errDepartmentExists   = "Department name already exists"
)

type DepartmentRepository struct {
	db     *gorm.DB
	mapper mappers.DepartmentMapper
	logger logger.Interface
}

func NewDepartmentRepository(db *gorm.DB, logger logger.Interface) department.Repository {
	return &DepartmentRepository{
		db:     db,
		mapper: mappers.NewDepartmentMapper(),
		logger: logger,
	}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) error {
	model := r.mapper.ToModel(d)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return translate(err, errDepartmentNotFound, errDepartmentExists, "Failed to create department")
	}
	if err := d.SetID(model.ID); err != nil {
		return apperrors.Wrap(err, "Failed to create department")
	}
	return nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uint) (*department.Department, error) {
	var row models.DepartmentRow
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&row.DepartmentModel, id).Error; err != nil {
		return nil, translate(err, errDepartmentNotFound, errDepartmentExists, "Failed to get department")
	}
	return r.toEntity(&row)
}

func (r *DepartmentRepository) GetByIDWithCount(ctx context.Context, id uint) (*department.Department, error) {
	var row models.DepartmentRow
	tx := db.GetTxFromContext(ctx, r.db)

	err := r.withCounts(tx).
		Where(constants.TableDepartments+".id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, translate(err, errDepartmentNotFound, errDepartmentExists, "Failed to get department")
	}
	return r.toEntity(&row)
}

func (r *DepartmentRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.DepartmentModel{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "Failed to check department name")
	}
	return count > 0, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d *department.Department) error {
	model := r.mapper.ToModel(d)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.DepartmentModel{}).
		Where("id = ?", model.ID).
		Select("name", "updated_at").
		Updates(model)
	if result.Error != nil {
		return translate(result.Error, errDepartmentNotFound, errDepartmentExists, "Failed to update department")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(errDepartmentNotFound)
	}
	return nil
}

// Delete counts referencing tickets and deletes inside one transaction so a
// ticket created in between cannot be orphaned.
func (r *DepartmentRepository) Delete(ctx context.Context, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var tickets int64
		if err := tx.Model(&models.TicketModel{}).Where("department_id = ?", id).Count(&tickets).Error; err != nil {
			return apperrors.Wrap(err, "Failed to delete department")
		}
		if tickets > 0 {
			return apperrors.NewConflictError("Cannot delete department with existing tickets")
		}

		result := tx.Delete(&models.DepartmentModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "Failed to delete department")
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFoundError(errDepartmentNotFound)
		}

		r.logger.Infow("department deleted", "id", id)
		return nil
	})
}

func (r *DepartmentRepository) List(ctx context.Context, withCounts bool) ([]*department.Department, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.DepartmentRow
	var err error
	if withCounts {
		err = r.withCounts(tx).Order(constants.TableDepartments + ".name ASC").Scan(&rows).Error
	} else {
		var plain []models.DepartmentModel
		err = tx.Order("name ASC").Find(&plain).Error
		for _, m := range plain {
			rows = append(rows, models.DepartmentRow{DepartmentModel: m})
		}
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to list departments")
	}

	return mapper.Rows(rows, r.toEntity)
}

func (r *DepartmentRepository) withCounts(tx *gorm.DB) *gorm.DB {
	d, t := constants.TableDepartments, constants.TableTickets
	return tx.Table(d).
		Select(d + ".*, COUNT(" + t + ".id) AS ticket_count").
		Joins("LEFT JOIN " + t + " ON " + t + ".department_id = " + d + ".id").
		Group(d + ".id")
}

func (r *DepartmentRepository) toEntity(row *models.DepartmentRow) (*department.Department, error) {
	d, err := r.mapper.ToEntity(row)
	if err != nil {
		r.logger.Errorw("failed to map department", "id", row.ID, "error", err)
		return nil, apperrors.Wrap(err, "Failed to load department")
	}
	return d, nil
}
