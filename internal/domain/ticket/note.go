package ticket

import (
	"fmt"
	"strings"
	"time"

	uservo "helpdesk/internal/domain/user/valueobjects"
)

// Note is a staff or owner comment on a ticket. Only its author or an admin
// may edit or delete it.
type Note struct {
	id         uint
	ticketID   uint
	authorID   uint
	text       string
	createdAt  time.Time
	updatedAt  time.Time
	authorName string
	authorRole uservo.Role
}

func NewNote(ticketID, authorID uint, text string) (*Note, error) {
	text, err := validateNoteText(text)
	if err != nil {
		return nil, err
	}
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if authorID == 0 {
		return nil, fmt.Errorf("author ID is required")
	}
	now := time.Now()
	return &Note{ticketID: ticketID, authorID: authorID, text: text, createdAt: now, updatedAt: now}, nil
}

func ReconstructNote(id, ticketID, authorID uint, text string, createdAt, updatedAt time.Time, authorName string, authorRole uservo.Role) (*Note, error) {
	if id == 0 {
		return nil, fmt.Errorf("note ID cannot be zero")
	}
	return &Note{
		id:         id,
		ticketID:   ticketID,
		authorID:   authorID,
		text:       text,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		authorName: authorName,
		authorRole: authorRole,
	}, nil
}

func validateNoteText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("note is required")
	}
	return text, nil
}

func (n *Note) ID() uint                { return n.id }
func (n *Note) TicketID() uint          { return n.ticketID }
func (n *Note) AuthorID() uint          { return n.authorID }
func (n *Note) Text() string            { return n.text }
func (n *Note) CreatedAt() time.Time    { return n.createdAt }
func (n *Note) UpdatedAt() time.Time    { return n.updatedAt }
func (n *Note) AuthorName() string      { return n.authorName }
func (n *Note) AuthorRole() uservo.Role { return n.authorRole }

func (n *Note) SetID(id uint) error {
	if n.id != 0 {
		return fmt.Errorf("note ID is already set")
	}
	n.id = id
	return nil
}

func (n *Note) BelongsTo(ticketID uint) bool {
	return n.ticketID == ticketID
}

func (n *Note) Edit(text string) error {
	text, err := validateNoteText(text)
	if err != nil {
		return err
	}
	n.text = text
	n.updatedAt = time.Now()
	return nil
}
