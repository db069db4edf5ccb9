// Package ticket holds the ticket aggregate, its notes and attachments.
package ticket

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "helpdesk/internal/domain/ticket/valueobjects"
	uservo "helpdesk/internal/domain/user/valueobjects"
)

const maxTitleLength = 255

// Participants carries display names joined in by read queries. It is empty
// on tickets that were built in memory.
type Participants struct {
	OwnerName         string
	OwnerEmail        string
	DepartmentName    string
	AssignedAgentName string
}

type Ticket struct {
	id              uint
	title           string
	description     string
	ownerID         uint
	departmentID    uint
	status          vo.TicketStatus
	assignedAgentID *uint
	createdAt       time.Time
	updatedAt       time.Time
	participants    Participants
}

// NewTicket opens a ticket on behalf of ownerID. New tickets always start
// open and unassigned.
func NewTicket(title, description string, ownerID, departmentID uint) (*Ticket, error) {
	title, description, err := validateDetails(title, description)
	if err != nil {
		return nil, err
	}
	if ownerID == 0 {
		return nil, fmt.Errorf("owner ID is required")
	}
	if departmentID == 0 {
		return nil, fmt.Errorf("department ID is required")
	}

	now := time.Now()
	return &Ticket{
		title:        title,
		description:  description,
		ownerID:      ownerID,
		departmentID: departmentID,
		status:       vo.StatusOpen,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructTicket(
	id uint,
	title, description string,
	ownerID, departmentID uint,
	status vo.TicketStatus,
	assignedAgentID *uint,
	createdAt, updatedAt time.Time,
	participants Participants,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	return &Ticket{
		id:              id,
		title:           title,
		description:     description,
		ownerID:         ownerID,
		departmentID:    departmentID,
		status:          status,
		assignedAgentID: assignedAgentID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		participants:    participants,
	}, nil
}

func validateDetails(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return "", "", fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", "", fmt.Errorf("title cannot exceed %d characters", maxTitleLength)
	}
	if description == "" {
		return "", "", fmt.Errorf("description is required")
	}
	return title, description, nil
}

func (t *Ticket) ID() uint                   { return t.id }
func (t *Ticket) Title() string              { return t.title }
func (t *Ticket) Description() string        { return t.description }
func (t *Ticket) OwnerID() uint              { return t.ownerID }
func (t *Ticket) DepartmentID() uint         { return t.departmentID }
func (t *Ticket) Status() vo.TicketStatus    { return t.status }
func (t *Ticket) CreatedAt() time.Time       { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time       { return t.updatedAt }
func (t *Ticket) Participants() Participants { return t.participants }

func (t *Ticket) AssignedAgentID() *uint {
	if t.assignedAgentID == nil {
		return nil
	}
	id := *t.assignedAgentID
	return &id
}

func (t *Ticket) IsOwnedBy(userID uint) bool {
	return t.ownerID == userID
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// UpdateDetails replaces title and description. A nil argument keeps the
// current text.
func (t *Ticket) UpdateDetails(title, description *string) error {
	newTitle, newDesc := t.title, t.description
	if title != nil {
		newTitle = *title
	}
	if description != nil {
		newDesc = *description
	}
	newTitle, newDesc, err := validateDetails(newTitle, newDesc)
	if err != nil {
		return err
	}
	t.title, t.description = newTitle, newDesc
	t.touch()
	return nil
}

// ChangeStatus moves the ticket to status. Any valid status may follow any
// other; closed tickets can be reopened.
func (t *Ticket) ChangeStatus(status vo.TicketStatus) error {
	if !t.status.CanTransitionTo(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	t.status = status
	t.touch()
	return nil
}

// AssignTo hands the ticket to a staff member and forces it in progress,
// whatever its previous status.
func (t *Ticket) AssignTo(agentID uint, agentRole uservo.Role) error {
	if err := t.setAgent(agentID, agentRole); err != nil {
		return err
	}
	t.status = vo.StatusInProgress
	t.touch()
	return nil
}

// Reassign changes the assigned agent without touching the status. This is
// the path used by a general staff update.
func (t *Ticket) Reassign(agentID uint, agentRole uservo.Role) error {
	if err := t.setAgent(agentID, agentRole); err != nil {
		return err
	}
	t.touch()
	return nil
}

func (t *Ticket) setAgent(agentID uint, agentRole uservo.Role) error {
	if agentID == 0 {
		return fmt.Errorf("agent ID is required")
	}
	if !agentRole.IsStaff() {
		return fmt.Errorf("assigned user must be an agent or admin")
	}
	t.assignedAgentID = &agentID
	t.participants.AssignedAgentName = ""
	return nil
}

func (t *Ticket) Unassign() {
	t.assignedAgentID = nil
	t.participants.AssignedAgentName = ""
	t.touch()
}

func (t *Ticket) MoveToDepartment(departmentID uint) error {
	if departmentID == 0 {
		return fmt.Errorf("department ID is required")
	}
	t.departmentID = departmentID
	t.participants.DepartmentName = ""
	t.touch()
	return nil
}

func (t *Ticket) touch() {
	t.updatedAt = time.Now()
}
