package usecases

import (
	"context"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/logger"
)

type GetTicketStatsUseCase struct {
	ticketRepo ticket.Repository
	policy     *access.Policy
	logger     logger.Interface
}

func NewGetTicketStatsUseCase(ticketRepo ticket.Repository, policy *access.Policy, logger logger.Interface) *GetTicketStatsUseCase {
	return &GetTicketStatsUseCase{ticketRepo: ticketRepo, policy: policy, logger: logger}
}

// Execute counts tickets per status. Every status is present in ByStatus,
// with zero when no ticket has it.
func (uc *GetTicketStatsUseCase) Execute(ctx context.Context, actor *access.Actor) (*dto.TicketStatsResponse, error) {
	if err := uc.policy.Decide(actor, access.TicketStats, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	counts, err := uc.ticketRepo.CountByStatus(ctx, ticket.Filter{})
	if err != nil {
		uc.logger.Errorw("failed to count tickets", "error", err)
		return nil, err
	}

	stats := &dto.TicketStatsResponse{ByStatus: make(map[string]int64, len(counts))}
	for status, n := range counts {
		stats.ByStatus[status.String()] = n
		stats.TotalTickets += n
	}
	return stats, nil
}
