package usecases

import (
	"context"
	"strings"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/department"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type CreateTicketCommand struct {
	Actor        *access.Actor
	Title        string
	Description  string
	DepartmentID uint
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketResponse, error)
}

type CreateTicketUseCase struct {
	ticketRepo     ticket.Repository
	departmentRepo department.Repository
	policy         *access.Policy
	renderer       dto.Renderer
	logger         logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.Repository,
	departmentRepo department.Repository,
	policy *access.Policy,
	renderer dto.Renderer,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo:     ticketRepo,
		departmentRepo: departmentRepo,
		policy:         policy,
		renderer:       renderer,
		logger:         logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketResponse, error) {
	if err := uc.policy.Decide(cmd.Actor, access.TicketCreate, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	if err := validateCreate(cmd); err != nil {
		return nil, err
	}

	if _, err := uc.departmentRepo.GetByID(ctx, cmd.DepartmentID); err != nil {
		return nil, err
	}

	t, err := ticket.NewTicket(cmd.Title, cmd.Description, cmd.Actor.ID, cmd.DepartmentID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.ticketRepo.Create(ctx, t); err != nil {
		uc.logger.Errorw("failed to create ticket", "user_id", cmd.Actor.ID, "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket created", "ticket_id", t.ID(), "user_id", cmd.Actor.ID, "department_id", cmd.DepartmentID)

	created, err := uc.ticketRepo.GetByID(ctx, t.ID())
	if err != nil {
		return nil, err
	}
	return dto.ToTicketResponse(created, uc.renderer), nil
}

func validateCreate(cmd CreateTicketCommand) error {
	if strings.TrimSpace(cmd.Title) == "" {
		return errors.NewValidationError("Title is required")
	}
	if strings.TrimSpace(cmd.Description) == "" {
		return errors.NewValidationError("Description is required")
	}
	if cmd.DepartmentID == 0 {
		return errors.NewValidationError("Valid department ID is required")
	}
	return nil
}
