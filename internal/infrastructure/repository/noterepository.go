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

const errNoteNotFound = "Note not found"

type NoteRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	logger logger.Interface
}

func NewNoteRepository(db *gorm.DB, logger logger.Interface) ticket.NoteRepository {
	return &NoteRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

func (r *NoteRepository) Create(ctx context.Context, n *ticket.Note) error {
	model := r.mapper.NoteToModel(n)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "Failed to create note")
	}
	if err := n.SetID(model.ID); err != nil {
		return apperrors.Wrap(err, "Failed to create note")
	}
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id uint) (*ticket.Note, error) {
	var row models.NoteRow
	tx := db.GetTxFromContext(ctx, r.db)

	err := r.withAuthor(tx).Where(constants.TableNotes+".id = ?", id).Take(&row).Error
	if err != nil {
		return nil, translate(err, errNoteNotFound, "", "Failed to get note")
	}
	return r.toDomain(&row)
}

func (r *NoteRepository) Update(ctx context.Context, n *ticket.Note) error {
	model := r.mapper.NoteToModel(n)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.NoteModel{}).
		Where("id = ?", model.ID).
		Select("note", "updated_at").
		Updates(model)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Failed to update note")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(errNoteNotFound)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Delete(&models.NoteModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Failed to delete note")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(errNoteNotFound)
	}
	return nil
}

// ListByTicket returns notes oldest first, as a conversation reads.
func (r *NoteRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Note, error) {
	n := constants.TableNotes
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where(n+".ticket_id = ?", ticketID).Order(n + ".created_at ASC").Order(n + ".id ASC")
	})
}

func (r *NoteRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*ticket.Note, error) {
	n := constants.TableNotes
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where(n+".user_id = ?", authorID).Scopes(db.Newest(n))
	})
}

func (r *NoteRepository) CountByTicket(ctx context.Context, ticketID uint) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	if err := tx.Model(&models.NoteModel{}).Where("ticket_id = ?", ticketID).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "Failed to count notes")
	}
	return count, nil
}

func (r *NoteRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*ticket.Note, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []models.NoteRow
	if err := scope(r.withAuthor(tx)).Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to list notes")
	}

	return mapper.Rows(rows, r.toDomain)
}

func (r *NoteRepository) withAuthor(tx *gorm.DB) *gorm.DB {
	n := constants.TableNotes
	return tx.Table(n).
		Select(n + ".*, users.name AS author_name, users.role AS author_role").
		Joins("LEFT JOIN users ON users.id = " + n + ".user_id")
}

func (r *NoteRepository) toDomain(row *models.NoteRow) (*ticket.Note, error) {
	n, err := r.mapper.NoteToDomain(row)
	if err != nil {
		r.logger.Errorw("failed to map note", "id", row.ID, "error", err)
		return nil, apperrors.Wrap(err, "Failed to load note")
	}
	return n, nil
}
