package usecases

import (
	"context"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type ListTicketsQuery struct {
	Actor           *access.Actor
	Status          string
	DepartmentID    uint
	AssignedAgentID uint
	Page            int
	PageSize        int
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*dto.TicketListResponse, error)
}

// ListTicketsUseCase shows staff every ticket and plain users their own.
// The assigned agent filter is only honoured for staff.
type ListTicketsUseCase struct {
	ticketRepo ticket.Repository
	renderer   dto.Renderer
	logger     logger.Interface
}

func NewListTicketsUseCase(ticketRepo ticket.Repository, renderer dto.Renderer, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{ticketRepo: ticketRepo, renderer: renderer, logger: logger}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*dto.TicketListResponse, error) {
	if err := requireActor(query.Actor); err != nil {
		return nil, err
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)
	filter := ticket.Filter{Offset: p.Offset(), Limit: p.PageSize}
	if query.Status != "" {
		status, err := vo.ParseStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError("Invalid status. Must be open, in_progress, resolved or closed")
		}
		filter.Status = &status
	}
	if query.DepartmentID != 0 {
		filter.DepartmentID = &query.DepartmentID
	}
	if query.Actor.IsStaff() {
		if query.AssignedAgentID != 0 {
			filter.AssignedAgentID = &query.AssignedAgentID
		}
	} else {
		filter.OwnerID = &query.Actor.ID
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "user_id", query.Actor.ID, "error", err)
		return nil, err
	}

	return &dto.TicketListResponse{
		Tickets:  dto.ToTicketResponses(tickets, uc.renderer),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
