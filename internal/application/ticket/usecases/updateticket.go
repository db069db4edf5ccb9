package usecases

import (
	"context"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/department"
	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

// UpdateTicketCommand carries optional fields. An AssignedAgentID of zero
// removes the current assignment.
type UpdateTicketCommand struct {
	Actor           *access.Actor
	TicketID        uint
	Title           *string
	Description     *string
	Status          *string
	AssignedAgentID *uint
	DepartmentID    *uint
}

func (c UpdateTicketCommand) change() access.TicketChange {
	return access.TicketChange{
		Details:    c.Title != nil || c.Description != nil,
		Status:     c.Status != nil,
		Assignment: c.AssignedAgentID != nil,
		Department: c.DepartmentID != nil,
	}
}

type UpdateTicketExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketResponse, error)
}

type UpdateTicketUseCase struct {
	ticketRepo     ticket.Repository
	userRepo       user.Repository
	departmentRepo department.Repository
	policy         *access.Policy
	notifier       notifier
	renderer       dto.Renderer
	logger         logger.Interface
}

func NewUpdateTicketUseCase(
	ticketRepo ticket.Repository,
	userRepo user.Repository,
	departmentRepo department.Repository,
	policy *access.Policy,
	ticketNotifier ticket.Notifier,
	renderer dto.Renderer,
	logger logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		ticketRepo:     ticketRepo,
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		policy:         policy,
		notifier:       notifier{next: ticketNotifier, logger: logger},
		renderer:       renderer,
		logger:         logger,
	}
}

func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketResponse, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	res := access.TicketResource(t)
	res.Change = cmd.change()
	if err := uc.policy.Decide(cmd.Actor, access.TicketUpdate, res).Err(); err != nil {
		return nil, err
	}
	if res.Change == (access.TicketChange{}) {
		return nil, errors.NewValidationError("No valid fields to update")
	}

	fromStatus := t.Status()
	fromAgent := t.AssignedAgentID()

	if res.Change.Details {
		if err := t.UpdateDetails(cmd.Title, cmd.Description); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if cmd.Status != nil {
		status, err := vo.ParseStatus(*cmd.Status)
		if err != nil {
			return nil, errors.NewValidationError("Valid status is required (open, in_progress, resolved, closed)")
		}
		if err := t.ChangeStatus(status); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if cmd.AssignedAgentID != nil {
		if err := uc.applyAssignment(ctx, t, *cmd.AssignedAgentID); err != nil {
			return nil, err
		}
	}
	if cmd.DepartmentID != nil {
		if _, err := uc.departmentRepo.GetByID(ctx, *cmd.DepartmentID); err != nil {
			return nil, err
		}
		if err := t.MoveToDepartment(*cmd.DepartmentID); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", t.ID(), "error", err)
		return nil, err
	}
	uc.logger.Infow("ticket updated", "ticket_id", t.ID(), "updated_by", cmd.Actor.ID)

	updated, err := uc.ticketRepo.GetByID(ctx, t.ID())
	if err != nil {
		return nil, err
	}
	if agent := updated.AssignedAgentID(); agent != nil && (fromAgent == nil || *fromAgent != *agent) {
		uc.notifier.assigned(ctx, updated)
	}
	uc.notifier.statusChanged(ctx, updated, fromStatus)

	return dto.ToTicketResponse(updated, uc.renderer), nil
}

func (uc *UpdateTicketUseCase) applyAssignment(ctx context.Context, t *ticket.Ticket, agentID uint) error {
	if agentID == 0 {
		t.Unassign()
		return nil
	}
	agent, err := findAgent(ctx, uc.userRepo, agentID)
	if err != nil {
		return err
	}
	return t.Reassign(agent.ID(), agent.Role())
}

// findAgent loads a user that tickets may be assigned to.
func findAgent(ctx context.Context, repo user.Repository, id uint) (*user.User, error) {
	agent, err := repo.GetByID(ctx, id)
	if errors.IsNotFoundError(err) {
		return nil, errors.NewValidationError("Invalid agent ID")
	}
	if err != nil {
		return nil, err
	}
	if !agent.IsStaff() {
		return nil, errors.NewValidationError("Invalid agent ID")
	}
	return agent, nil
}
