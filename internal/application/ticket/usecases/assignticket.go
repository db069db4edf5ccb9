package usecases

import (
	"context"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type AssignTicketCommand struct {
	Actor    *access.Actor
	TicketID uint
	AgentID  uint
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketResponse, error)
}

// AssignTicketUseCase hands a ticket to an agent or admin and moves it to
// in_progress.
type AssignTicketUseCase struct {
	ticketRepo ticket.Repository
	userRepo   user.Repository
	policy     *access.Policy
	notifier   notifier
	renderer   dto.Renderer
	logger     logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.Repository,
	userRepo user.Repository,
	policy *access.Policy,
	ticketNotifier ticket.Notifier,
	renderer dto.Renderer,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		policy:     policy,
		notifier:   notifier{next: ticketNotifier, logger: logger},
		renderer:   renderer,
		logger:     logger,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketResponse, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Decide(cmd.Actor, access.TicketAssign, access.TicketResource(t)).Err(); err != nil {
		return nil, err
	}
	if cmd.AgentID == 0 {
		return nil, errors.NewValidationError("Valid agent ID is required")
	}

	agent, err := findAgent(ctx, uc.userRepo, cmd.AgentID)
	if err != nil {
		return nil, err
	}
	if err := t.AssignTo(agent.ID(), agent.Role()); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to assign ticket", "ticket_id", t.ID(), "agent_id", agent.ID(), "error", err)
		return nil, err
	}
	uc.logger.Infow("ticket assigned", "ticket_id", t.ID(), "agent_id", agent.ID(), "assigned_by", cmd.Actor.ID)

	updated, err := uc.ticketRepo.GetByID(ctx, t.ID())
	if err != nil {
		return nil, err
	}
	uc.notifier.assigned(ctx, updated)
	return dto.ToTicketResponse(updated, uc.renderer), nil
}
