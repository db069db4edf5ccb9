package ticket

import (
	"context"

	vo "helpdesk/internal/domain/ticket/valueobjects"
)

// Notifier tells a ticket's owner about staff activity. Implementations
// read names and addresses from the ticket's Participants.
type Notifier interface {
	TicketAssigned(ctx context.Context, t *Ticket) error
	TicketStatusChanged(ctx context.Context, t *Ticket, from vo.TicketStatus) error
}
