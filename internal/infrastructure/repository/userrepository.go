package repository

import (
	"context"

	"gorm.io/gorm"

	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/db"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

const (
	errUserNotFound    = "User not found"
	errEmailExists     = "Email already exists"
	errUserPersistence = "Failed to access users"
)

type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return translate(err, errUserNotFound, errEmailExists, "Failed to create user")
	}
	if err := u.SetID(model.ID); err != nil {
		return apperrors.Wrap(err, "Failed to create user")
	}

	r.logger.Infow("user created", "id", model.ID, "role", model.Role)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		return nil, translate(err, errUserNotFound, errEmailExists, errUserPersistence)
	}
	return r.toEntity(&model)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("email = ?", vo.NormalizeEmail(email)).First(&model).Error; err != nil {
		return nil, translate(err, errUserNotFound, errEmailExists, errUserPersistence)
	}
	return r.toEntity(&model)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.UserModel{}).Where("email = ?", vo.NormalizeEmail(email))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, errUserPersistence)
	}
	return count > 0, nil
}

// Update saves the user. A user demoted to the plain role is released from
// the tickets assigned to them in the same transaction, since only staff
// may hold an assignment.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)

	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.UserModel{}).
			Where("id = ?", model.ID).
			Select("name", "email", "password", "role", "updated_at").
			Updates(model)
		if result.Error != nil {
			return translate(result.Error, errUserNotFound, errEmailExists, "Failed to update user")
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFoundError(errUserNotFound)
		}

		if u.Role().IsStaff() {
			return nil
		}
		released := tx.Model(&models.TicketModel{}).
			Where("assigned_agent_id = ?", model.ID).
			Update("assigned_agent_id", nil)
		if released.Error != nil {
			return apperrors.Wrap(released.Error, "Failed to update user")
		}
		if released.RowsAffected > 0 {
			r.logger.Infow("unassigned tickets of demoted user", "id", model.ID, "tickets", released.RowsAffected)
		}
		return nil
	})
}

// Delete refuses to remove a user who still owns tickets and unassigns the
// tickets they were working.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&models.TicketModel{}).Where("user_id = ?", id).Count(&owned).Error; err != nil {
			return apperrors.Wrap(err, "Failed to delete user")
		}
		if owned > 0 {
			return apperrors.NewConflictError("Cannot delete a user who still owns tickets")
		}

		if err := tx.Model(&models.TicketModel{}).
			Where("assigned_agent_id = ?", id).
			Update("assigned_agent_id", nil).Error; err != nil {
			return apperrors.Wrap(err, "Failed to delete user")
		}

		result := tx.Delete(&models.UserModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "Failed to delete user")
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFoundError(errUserNotFound)
		}

		r.logger.Infow("user deleted", "id", id)
		return nil
	})
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.UserModel{})

	if filter.Role != nil {
		query = query.Where("role = ?", filter.Role.String())
	}
	if len(filter.Roles) > 0 {
		roles := make([]string, len(filter.Roles))
		for i, role := range filter.Roles {
			roles[i] = role.String()
		}
		query = query.Where("role IN ?", roles)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "Failed to count users")
	}

	if filter.PageSize > 0 {
		page := max(filter.Page, 1)
		query = query.Scopes(db.Paginate((page-1)*filter.PageSize, filter.PageSize))
	}

	var rows []models.UserModel
	if err := query.Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "Failed to list users")
	}

	users, err := r.mapper.ToEntities(rows)
	if err != nil {
		r.logger.Errorw("failed to map users", "error", err)
		return nil, 0, apperrors.Wrap(err, "Failed to list users")
	}
	return users, total, nil
}

func (r *UserRepository) toEntity(model *models.UserModel) (*user.User, error) {
	u, err := r.mapper.ToEntity(model)
	if err != nil {
		r.logger.Errorw("failed to map user model to entity", "id", model.ID, "error", err)
		return nil, apperrors.Wrap(err, errUserPersistence)
	}
	return u, nil
}
