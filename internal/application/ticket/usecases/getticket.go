package usecases

import (
	"context"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/logger"
)

type GetTicketUseCase struct {
	ticketRepo     ticket.Repository
	noteRepo       ticket.NoteRepository
	attachmentRepo ticket.AttachmentRepository
	policy         *access.Policy
	renderer       dto.Renderer
	logger         logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.Repository,
	noteRepo ticket.NoteRepository,
	attachmentRepo ticket.AttachmentRepository,
	policy *access.Policy,
	renderer dto.Renderer,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo:     ticketRepo,
		noteRepo:       noteRepo,
		attachmentRepo: attachmentRepo,
		policy:         policy,
		renderer:       renderer,
		logger:         logger,
	}
}

// Execute returns the ticket with its note and attachment counts.
func (uc *GetTicketUseCase) Execute(ctx context.Context, actor *access.Actor, ticketID uint) (*dto.TicketResponse, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, ticketID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Decide(actor, access.TicketRead, access.TicketResource(t)).Err(); err != nil {
		return nil, err
	}

	notes, err := uc.noteRepo.CountByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	attachments, err := uc.attachmentRepo.CountByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToTicketResponse(t, uc.renderer)
	resp.NoteCount = &notes
	resp.AttachmentCount = &attachments
	return resp, nil
}
