package usecases

import (
	"context"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type ChangeStatusCommand struct {
	Actor    *access.Actor
	TicketID uint
	Status   string
}

type ChangeStatusExecutor interface {
	Execute(ctx context.Context, cmd ChangeStatusCommand) (*dto.TicketResponse, error)
}

type ChangeStatusUseCase struct {
	ticketRepo ticket.Repository
	policy     *access.Policy
	notifier   notifier
	renderer   dto.Renderer
	logger     logger.Interface
}

func NewChangeStatusUseCase(
	ticketRepo ticket.Repository,
	policy *access.Policy,
	ticketNotifier ticket.Notifier,
	renderer dto.Renderer,
	logger logger.Interface,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		ticketRepo: ticketRepo,
		policy:     policy,
		notifier:   notifier{next: ticketNotifier, logger: logger},
		renderer:   renderer,
		logger:     logger,
	}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*dto.TicketResponse, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Decide(cmd.Actor, access.TicketChangeStatus, access.TicketResource(t)).Err(); err != nil {
		return nil, err
	}
	status, err := vo.ParseStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewValidationError("Valid status is required (open, in_progress, resolved, closed)")
	}

	from := t.Status()
	if err := t.ChangeStatus(status); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to change ticket status", "ticket_id", t.ID(), "error", err)
		return nil, err
	}
	uc.logger.Infow("ticket status changed", "ticket_id", t.ID(), "from", from, "to", status, "changed_by", cmd.Actor.ID)

	updated, err := uc.ticketRepo.GetByID(ctx, t.ID())
	if err != nil {
		return nil, err
	}
	uc.notifier.statusChanged(ctx, updated, from)
	return dto.ToTicketResponse(updated, uc.renderer), nil
}
