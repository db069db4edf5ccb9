package ticket

import (
	"context"

	vo "helpdesk/internal/domain/ticket/valueobjects"
)

// Repository persists tickets. Reads join owner, department and agent names
// into Participants.
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id uint) (*Ticket, error)
	Update(ctx context.Context, t *Ticket) error
	// Delete removes the ticket together with its notes and attachment rows.
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter Filter) ([]*Ticket, int64, error)
	CountByStatus(ctx context.Context, filter Filter) (map[vo.TicketStatus]int64, error)
}

// Filter narrows a ticket query. Zero values mean "any".
type Filter struct {
	OwnerID         *uint
	AssignedAgentID *uint
	DepartmentID    *uint
	Status          *vo.TicketStatus
	Offset          int
	Limit           int
}

type NoteRepository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id uint) (*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id uint) error
	ListByTicket(ctx context.Context, ticketID uint) ([]*Note, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*Note, error)
	CountByTicket(ctx context.Context, ticketID uint) (int64, error)
}

type AttachmentRepository interface {
	Create(ctx context.Context, a *Attachment) error
	GetByID(ctx context.Context, id uint) (*Attachment, error)
	Delete(ctx context.Context, id uint) error
	ListByTicket(ctx context.Context, ticketID uint) ([]*Attachment, error)
	CountByTicket(ctx context.Context, ticketID uint) (int64, error)
	Stats(ctx context.Context) (StorageStats, error)
}

// StorageStats summarizes every stored attachment.
type StorageStats struct {
	TotalFiles int64
	TotalSize  int64
}

// AverageSize is zero when nothing is stored.
func (s StorageStats) AverageSize() int64 {
	if s.TotalFiles == 0 {
		return 0
	}
	return s.TotalSize / s.TotalFiles
}
