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

// NoteUseCases groups the operations on a ticket's conversation.
type NoteUseCases struct {
	ticketRepo ticket.Repository
	noteRepo   ticket.NoteRepository
	userRepo   user.Repository
	policy     *access.Policy
	renderer   dto.Renderer
	logger     logger.Interface
}

func NewNoteUseCases(
	ticketRepo ticket.Repository,
	noteRepo ticket.NoteRepository,
	userRepo user.Repository,
	policy *access.Policy,
	renderer dto.Renderer,
	logger logger.Interface,
) *NoteUseCases {
	return &NoteUseCases{
		ticketRepo: ticketRepo,
		noteRepo:   noteRepo,
		userRepo:   userRepo,
		policy:     policy,
		renderer:   renderer,
		logger:     logger,
	}
}

func (uc *NoteUseCases) List(ctx context.Context, actor *access.Actor, ticketID uint) ([]*dto.NoteResponse, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, ticketID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Decide(actor, access.NoteRead, access.NoteResource(t, nil)).Err(); err != nil {
		return nil, err
	}
	notes, err := uc.noteRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return dto.ToNoteResponses(notes, uc.renderer), nil
}

func (uc *NoteUseCases) Get(ctx context.Context, actor *access.Actor, ticketID, noteID uint) (*dto.NoteResponse, error) {
	t, n, err := uc.load(ctx, ticketID, noteID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Decide(actor, access.NoteRead, access.NoteResource(t, n)).Err(); err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errors.NewNotFoundError("Note not found")
	}
	return dto.ToNoteResponse(n, uc.renderer), nil
}

func (uc *NoteUseCases) Create(ctx context.Context, actor *access.Actor, ticketID uint, text string) (*dto.NoteResponse, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, ticketID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Decide(actor, access.NoteCreate, access.NoteResource(t, nil)).Err(); err != nil {
		return nil, err
	}

	n, err := ticket.NewNote(ticketID, actor.ID, text)
	if err != nil {
		return nil, errors.NewValidationError("Note content is required")
	}
	if err := uc.noteRepo.Create(ctx, n); err != nil {
		uc.logger.Errorw("failed to add note", "ticket_id", ticketID, "error", err)
		return nil, err
	}
	uc.logger.Infow("note added", "ticket_id", ticketID, "note_id", n.ID(), "user_id", actor.ID)

	return uc.reload(ctx, n.ID())
}

func (uc *NoteUseCases) Update(ctx context.Context, actor *access.Actor, ticketID, noteID uint, text string) (*dto.NoteResponse, error) {
	t, n, err := uc.load(ctx, ticketID, noteID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Decide(actor, access.NoteUpdate, access.NoteResource(t, n)).Err(); err != nil {
		return nil, err
	}

	if err := n.Edit(text); err != nil {
		return nil, errors.NewValidationError("Note content is required")
	}
	if err := uc.noteRepo.Update(ctx, n); err != nil {
		uc.logger.Errorw("failed to update note", "note_id", noteID, "error", err)
		return nil, err
	}
	uc.logger.Infow("note updated", "ticket_id", ticketID, "note_id", noteID, "user_id", actor.ID)

	return uc.reload(ctx, noteID)
}

func (uc *NoteUseCases) Delete(ctx context.Context, actor *access.Actor, ticketID, noteID uint) error {
	t, n, err := uc.load(ctx, ticketID, noteID)
	if err != nil {
		return err
	}
	if err := uc.policy.Decide(actor, access.NoteDelete, access.NoteResource(t, n)).Err(); err != nil {
		return err
	}
	if err := uc.noteRepo.Delete(ctx, noteID); err != nil {
		uc.logger.Errorw("failed to delete note", "note_id", noteID, "error", err)
		return err
	}
	uc.logger.Infow("note deleted", "ticket_id", ticketID, "note_id", noteID, "user_id", actor.ID)
	return nil
}

// ListByUser returns every note a user wrote, across tickets.
func (uc *NoteUseCases) ListByUser(ctx context.Context, actor *access.Actor, userID uint) ([]*dto.NoteResponse, error) {
	if err := uc.policy.Decide(actor, access.NoteListByUser, access.Resource{SubjectUserID: userID}).Err(); err != nil {
		return nil, err
	}
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	notes, err := uc.noteRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToNoteResponses(notes, uc.renderer), nil
}

func (uc *NoteUseCases) load(ctx context.Context, ticketID, noteID uint) (*ticket.Ticket, *ticket.Note, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, ticketID)
	if err != nil {
		return nil, nil, err
	}
	n, err := loadNote(ctx, uc.noteRepo, noteID)
	if err != nil {
		return nil, nil, err
	}
	return t, n, nil
}

func (uc *NoteUseCases) reload(ctx context.Context, noteID uint) (*dto.NoteResponse, error) {
	n, err := uc.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return dto.ToNoteResponse(n, uc.renderer), nil
}
