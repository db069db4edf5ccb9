package usecases

import (
	"context"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// ListAssignedUseCase is the caller's own work queue.
type ListAssignedUseCase struct {
	ticketRepo ticket.Repository
	policy     *access.Policy
	renderer   dto.Renderer
	logger     logger.Interface
}

func NewListAssignedUseCase(ticketRepo ticket.Repository, policy *access.Policy, renderer dto.Renderer, logger logger.Interface) *ListAssignedUseCase {
	return &ListAssignedUseCase{ticketRepo: ticketRepo, policy: policy, renderer: renderer, logger: logger}
}

func (uc *ListAssignedUseCase) Execute(ctx context.Context, actor *access.Actor, page, pageSize int) (*dto.TicketListResponse, error) {
	if err := uc.policy.Decide(actor, access.TicketListAssigned, access.Resource{}).Err(); err != nil {
		return nil, err
	}

	p := utils.ValidatePagination(page, pageSize)
	agentID := actor.ID
	tickets, total, err := uc.ticketRepo.List(ctx, ticket.Filter{
		AssignedAgentID: &agentID,
		Offset:          p.Offset(),
		Limit:           p.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list assigned tickets", "agent_id", actor.ID, "error", err)
		return nil, err
	}

	return &dto.TicketListResponse{
		Tickets:  dto.ToTicketResponses(tickets, uc.renderer),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
