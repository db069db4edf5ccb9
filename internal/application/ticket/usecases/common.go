package usecases

import (
	"context"

	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

// loadTicket returns a nil ticket without error when it does not exist, so
// that the policy decides between NotFound and an authentication failure.
func loadTicket(ctx context.Context, repo ticket.Repository, id uint) (*ticket.Ticket, error) {
	t, err := repo.GetByID(ctx, id)
	if errors.IsNotFoundError(err) {
		return nil, nil
	}
	return t, err
}

func loadNote(ctx context.Context, repo ticket.NoteRepository, id uint) (*ticket.Note, error) {
	n, err := repo.GetByID(ctx, id)
	if errors.IsNotFoundError(err) {
		return nil, nil
	}
	return n, err
}

func loadAttachment(ctx context.Context, repo ticket.AttachmentRepository, id uint) (*ticket.Attachment, error) {
	a, err := repo.GetByID(ctx, id)
	if errors.IsNotFoundError(err) {
		return nil, nil
	}
	return a, err
}

func requireActor(actor *access.Actor) error {
	if actor == nil || actor.ID == 0 {
		return errors.NewUnauthorizedError("Authentication required")
	}
	return nil
}

// notifier wraps a ticket.Notifier so that delivery failures never fail
// the request that triggered them.
type notifier struct {
	next   ticket.Notifier
	logger logger.Interface
}

func (n notifier) assigned(ctx context.Context, t *ticket.Ticket) {
	if n.next == nil {
		return
	}
	if err := n.next.TicketAssigned(ctx, t); err != nil {
		n.logger.Warnw("failed to send assignment notification", "ticket_id", t.ID(), "error", err)
	}
}

func (n notifier) statusChanged(ctx context.Context, t *ticket.Ticket, from vo.TicketStatus) {
	if n.next == nil || from == t.Status() {
		return
	}
	if err := n.next.TicketStatusChanged(ctx, t, from); err != nil {
		n.logger.Warnw("failed to send status notification", "ticket_id", t.ID(), "error", err)
	}
}
