package repository

import (
	"context"

	"gorm.io/gorm"

	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/db"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/mapper"
)

const errAttachmentNotFound = "Attachment not found"

type AttachmentRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	logger logger.Interface
}

func NewAttachmentRepository(db *gorm.DB, logger logger.Interface) ticket.AttachmentRepository {
	return &AttachmentRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *ticket.Attachment) error {
	model, err := r.mapper.AttachmentToModel(a)
	if err != nil {
		return apperrors.Wrap(err, "Failed to save attachment")
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return translate(err, errAttachmentNotFound, "Attachment already exists", "Failed to save attachment")
	}
	if err := a.SetID(model.ID); err != nil {
		return apperrors.Wrap(err, "Failed to save attachment")
	}
	return nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uint) (*ticket.Attachment, error) {
	var row models.AttachmentRow
	tx := db.GetTxFromContext(ctx, r.db)

	err := r.withUploader(tx).Where(constants.TableAttachments+".id = ?", id).Take(&row).Error
	if err != nil {
		return nil, translate(err, errAttachmentNotFound, "", "Failed to get attachment")
	}
	return r.toDomain(&row)
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Delete(&models.AttachmentModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Failed to delete attachment")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(errAttachmentNotFound)
	}
	return nil
}

func (r *AttachmentRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Attachment, error) {
	a := constants.TableAttachments
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.AttachmentRow
	err := r.withUploader(tx).
		Where(a+".ticket_id = ?", ticketID).
		Scopes(db.Newest(a)).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to list attachments")
	}

	return mapper.Rows(rows, r.toDomain)
}

func (r *AttachmentRepository) CountByTicket(ctx context.Context, ticketID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	if err := tx.Model(&models.AttachmentModel{}).Where("ticket_id = ?", ticketID).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "Failed to count attachments")
	}
	return count, nil
}

func (r *AttachmentRepository) Stats(ctx context.Context) (ticket.StorageStats, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var stats ticket.StorageStats
	err := tx.Model(&models.AttachmentModel{}).
		Select("COUNT(*) AS total_files, COALESCE(SUM(file_size), 0) AS total_size").
		Scan(&stats).Error
	if err != nil {
		return ticket.StorageStats{}, apperrors.Wrap(err, "Failed to compute storage statistics")
	}
	return stats, nil
}

func (r *AttachmentRepository) withUploader(tx *gorm.DB) *gorm.DB {
	a := constants.TableAttachments
	return tx.Table(a).
		Select(a + ".*, users.name AS uploader_name").
		Joins("LEFT JOIN users ON users.id = " + a + ".user_id")
}

func (r *AttachmentRepository) toDomain(row *models.AttachmentRow) (*ticket.Attachment, error) {
	a, err := r.mapper.AttachmentToDomain(row)
	if err != nil {
		r.logger.Errorw("failed to map attachment", "id", row.ID, "error", err)
		return nil, apperrors.Wrap(err, "Failed to load attachment")
	}
	return a, nil
}
