package usecases

import (
	"context"

	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/infrastructure/storage"
	"helpdesk/internal/shared/logger"
)

type DeleteTicketUseCase struct {
	ticketRepo     ticket.Repository
	attachmentRepo ticket.AttachmentRepository
	files          storage.FileStorage
	policy         *access.Policy
	logger         logger.Interface
}

func NewDeleteTicketUseCase(
	ticketRepo ticket.Repository,
	attachmentRepo ticket.AttachmentRepository,
	files storage.FileStorage,
	policy *access.Policy,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		ticketRepo:     ticketRepo,
		attachmentRepo: attachmentRepo,
		files:          files,
		policy:         policy,
		logger:         logger,
	}
}

// Execute removes the ticket, its notes and attachment rows, then the
// stored attachment files.
func (uc *DeleteTicketUseCase) Execute(ctx context.Context, actor *access.Actor, ticketID uint) error {
	t, err := loadTicket(ctx, uc.ticketRepo, ticketID)
	if err != nil {
		return err
	}
	if err := uc.policy.Decide(actor, access.TicketDelete, access.TicketResource(t)).Err(); err != nil {
		return err
	}

	attachments, err := uc.attachmentRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := uc.ticketRepo.Delete(ctx, ticketID); err != nil {
		uc.logger.Errorw("failed to delete ticket", "ticket_id", ticketID, "error", err)
		return err
	}

	for _, a := range attachments {
		if err := uc.files.Remove(a.StoredName()); err != nil {
			uc.logger.Warnw("failed to remove attachment file", "ticket_id", ticketID, "file", a.StoredName(), "error", err)
		}
	}

	uc.logger.Infow("ticket deleted", "ticket_id", ticketID, "deleted_by", actor.ID, "files", len(attachments))
	return nil
}
