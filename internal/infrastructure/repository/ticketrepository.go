package repository

import (
	"context"

	"gorm.io/gorm"

	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/db"
	apperrors "helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/mapper"
)

const errTicketNotFound = "Ticket not found"

const ticketRowColumns = `tickets.*,
	owner.name AS user_name,
	owner.email AS user_email,
	departments.name AS department_name,
	agent.name AS assigned_agent_name`

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	logger logger.Interface
}

func NewTicketRepository(db *gorm.DB, logger logger.Interface) ticket.Repository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "Failed to create ticket")
	}
	if err := t.SetID(model.ID); err != nil {
		return apperrors.Wrap(err, "Failed to create ticket")
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	var row models.TicketRow
	tx := db.GetTxFromContext(ctx, r.db)

	err := r.withParticipants(tx).
		Where(constants.TableTickets+".id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, translate(err, errTicketNotFound, "", "Failed to get ticket")
	}
	return r.toDomain(&row)
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.TicketModel{}).
		Where("id = ?", model.ID).
		Select("title", "description", "department_id", "status", "assigned_agent_id", "updated_at").
		Updates(model)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "Failed to update ticket")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(errTicketNotFound)
	}
	return nil
}

// Delete removes notes and attachment rows with the ticket. Stored files are
// the caller's to remove.
func (r *TicketRepository) Delete(ctx context.Context, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&models.NoteModel{}).Error; err != nil {
			return apperrors.Wrap(err, "Failed to delete ticket notes")
		}
		if err := tx.Where("ticket_id = ?", id).Delete(&models.AttachmentModel{}).Error; err != nil {
			return apperrors.Wrap(err, "Failed to delete ticket attachments")
		}

		result := tx.Delete(&models.TicketModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "Failed to delete ticket")
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFoundError(errTicketNotFound)
		}
		return nil
	})
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var total int64
	if err := applyTicketFilter(tx.Model(&models.TicketModel{}), filter).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "Failed to count tickets")
	}

	var rows []models.TicketRow
	err := applyTicketFilter(r.withParticipants(tx), filter).
		Scopes(db.Newest(constants.TableTickets), db.Paginate(filter.Offset, filter.Limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "Failed to list tickets")
	}

	tickets, err := mapper.Rows(rows, r.toDomain)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *TicketRepository) CountByStatus(ctx context.Context, filter ticket.Filter) (map[vo.TicketStatus]int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []struct {
		Status string
		Count  int64
	}
	err := applyTicketFilter(tx.Model(&models.TicketModel{}), filter).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to count tickets")
	}

	counts := make(map[vo.TicketStatus]int64, len(vo.AllStatuses))
	for _, s := range vo.AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[vo.TicketStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *TicketRepository) withParticipants(tx *gorm.DB) *gorm.DB {
	return tx.Table(constants.TableTickets).
		Select(ticketRowColumns).
		Joins("LEFT JOIN users owner ON owner.id = tickets.user_id").
		Joins("LEFT JOIN departments ON departments.id = tickets.department_id").
		Joins("LEFT JOIN users agent ON agent.id = tickets.assigned_agent_id")
}

// applyTicketFilter pushes every filter into the WHERE clause.
func applyTicketFilter(query *gorm.DB, filter ticket.Filter) *gorm.DB {
	t := constants.TableTickets
	if filter.OwnerID != nil {
		query = query.Where(t+".user_id = ?", *filter.OwnerID)
	}
	if filter.AssignedAgentID != nil {
		query = query.Where(t+".assigned_agent_id = ?", *filter.AssignedAgentID)
	}
	if filter.DepartmentID != nil {
		query = query.Where(t+".department_id = ?", *filter.DepartmentID)
	}
	if filter.Status != nil {
		query = query.Where(t+".status = ?", filter.Status.String())
	}
	return query
}

func (r *TicketRepository) toDomain(row *models.TicketRow) (*ticket.Ticket, error) {
	t, err := r.mapper.ToDomain(row)
	if err != nil {
		r.logger.Errorw("failed to map ticket", "id", row.ID, "error", err)
		return nil, apperrors.Wrap(err, "Failed to load ticket")
	}
	return t, nil
}
