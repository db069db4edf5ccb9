package ticket

import (
	"context"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/application/ticket/usecases"
	"helpdesk/internal/domain/access"
)

// Use case interfaces for the ticket handlers - enables unit testing with mocks.

type createTicketUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateTicketCommand) (*dto.TicketResponse, error)
}

type listTicketsUseCase interface {
	Execute(ctx context.Context, query usecases.ListTicketsQuery) (*dto.TicketListResponse, error)
}

type getTicketUseCase interface {
	Execute(ctx context.Context, actor *access.Actor, ticketID uint) (*dto.TicketResponse, error)
}

type updateTicketUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateTicketCommand) (*dto.TicketResponse, error)
}

type deleteTicketUseCase interface {
	Execute(ctx context.Context, actor *access.Actor, ticketID uint) error
}

type assignTicketUseCase interface {
	Execute(ctx context.Context, cmd usecases.AssignTicketCommand) (*dto.TicketResponse, error)
}

type changeStatusUseCase interface {
	Execute(ctx context.Context, cmd usecases.ChangeStatusCommand) (*dto.TicketResponse, error)
}

type ticketStatsUseCase interface {
	Execute(ctx context.Context, actor *access.Actor) (*dto.TicketStatsResponse, error)
}

type listAssignedUseCase interface {
	Execute(ctx context.Context, actor *access.Actor, page, pageSize int) (*dto.TicketListResponse, error)
}

type noteService interface {
	List(ctx context.Context, actor *access.Actor, ticketID uint) ([]*dto.NoteResponse, error)
	Get(ctx context.Context, actor *access.Actor, ticketID, noteID uint) (*dto.NoteResponse, error)
	Create(ctx context.Context, actor *access.Actor, ticketID uint, text string) (*dto.NoteResponse, error)
	Update(ctx context.Context, actor *access.Actor, ticketID, noteID uint, text string) (*dto.NoteResponse, error)
	Delete(ctx context.Context, actor *access.Actor, ticketID, noteID uint) error
	ListByUser(ctx context.Context, actor *access.Actor, userID uint) ([]*dto.NoteResponse, error)
}

type attachmentService interface {
	Upload(ctx context.Context, cmd usecases.UploadCommand) (*dto.UploadResponse, error)
	List(ctx context.Context, actor *access.Actor, ticketID uint) ([]*dto.AttachmentResponse, error)
	Download(ctx context.Context, actor *access.Actor, ticketID, attachmentID uint) (*usecases.Download, error)
	Delete(ctx context.Context, actor *access.Actor, ticketID, attachmentID uint) error
	StorageStats(ctx context.Context, actor *access.Actor) (*dto.StorageStatsResponse, error)
}
