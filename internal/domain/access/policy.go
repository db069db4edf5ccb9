// Package access decides whether an actor may perform an action on a ticket,
// note, attachment or account. Decisions are pure: callers load the resource
// and pass a snapshot in, nothing is cached between calls.
package access

import (
	"helpdesk/internal/domain/ticket"
	ticketvo "helpdesk/internal/domain/ticket/valueobjects"
	vo "helpdesk/internal/domain/user/valueobjects"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uint
	Role vo.Role
}

func (a *Actor) IsStaff() bool { return a != nil && a.Role.IsStaff() }
func (a *Actor) IsAdmin() bool { return a != nil && a.Role.IsAdmin() }

type TicketRef struct {
	ID      uint
	OwnerID uint
	Status  ticketvo.TicketStatus
}

type NoteRef struct {
	ID       uint
	TicketID uint
	AuthorID uint
}

type AttachmentRef struct {
	ID         uint
	TicketID   uint
	UploaderID uint
}

// TicketChange describes which groups of ticket fields an update touches.
type TicketChange struct {
	Details    bool
	Status     bool
	Assignment bool
	Department bool
}

func (c TicketChange) staffOnly() bool {
	return c.Status || c.Assignment || c.Department
}

// Resource is the target of an action. A nil Ticket on a ticket-scoped
// action means the ticket does not exist. Note and Attachment are nil when
// the action addresses the whole ticket (listing, creating, uploading).
type Resource struct {
	Ticket     *TicketRef
	Note       *NoteRef
	Attachment *AttachmentRef
	Change     TicketChange

	// SubjectUserID is the account targeted by user:* actions.
	SubjectUserID uint
}

func TicketResource(t *ticket.Ticket) Resource {
	return Resource{Ticket: ticketRef(t)}
}

func NoteResource(t *ticket.Ticket, n *ticket.Note) Resource {
	r := Resource{Ticket: ticketRef(t)}
	if n != nil {
		r.Note = &NoteRef{ID: n.ID(), TicketID: n.TicketID(), AuthorID: n.AuthorID()}
	}
	return r
}

func AttachmentResource(t *ticket.Ticket, a *ticket.Attachment) Resource {
	r := Resource{Ticket: ticketRef(t)}
	if a != nil {
		r.Attachment = &AttachmentRef{ID: a.ID(), TicketID: a.TicketID(), UploaderID: a.UploaderID()}
	}
	return r
}

func ticketRef(t *ticket.Ticket) *TicketRef {
	if t == nil {
		return nil
	}
	return &TicketRef{ID: t.ID(), OwnerID: t.OwnerID(), Status: t.Status()}
}

type Policy struct {
	roles RoleMatrix
}

func NewPolicy(roles RoleMatrix) *Policy {
	return &Policy{roles: roles}
}

// Decide is total: every (actor, action, resource) yields exactly one
// Decision. Checks run in order: authentication, parent/child integrity,
// role matrix, then ownership.
func (p *Policy) Decide(actor *Actor, action Action, res Resource) Decision {
	if actor == nil || actor.ID == 0 {
		return deny(Unauthenticated, "Authentication required")
	}
	if d := checkIntegrity(action, res); !d.Allowed() {
		return d
	}
	if !p.roles.Allows(actor.Role, action) {
		return deny(Forbidden, forbiddenReason(action))
	}
	return checkOwnership(actor, action, res)
}

func checkIntegrity(action Action, res Resource) Decision {
	switch action.Object() {
	case "ticket":
		if needsTicket(action) && res.Ticket == nil {
			return deny(NotFound, "Ticket not found")
		}
	case "note":
		if action == NoteListByUser {
			return permit()
		}
		if res.Ticket == nil {
			return deny(NotFound, "Ticket not found")
		}
		if (action == NoteUpdate || action == NoteDelete) && res.Note == nil {
			return deny(NotFound, "Note not found")
		}
		if res.Note != nil && res.Note.TicketID != res.Ticket.ID {
			return deny(NotFound, "Note not found")
		}
	case "attachment":
		if res.Ticket == nil {
			return deny(NotFound, "Ticket not found")
		}
		if action == AttachmentDelete && res.Attachment == nil {
			return deny(NotFound, "Attachment not found")
		}
		if res.Attachment != nil && res.Attachment.TicketID != res.Ticket.ID {
			return deny(NotFound, "Attachment not found")
		}
	}
	return permit()
}

func needsTicket(action Action) bool {
	switch action {
	case TicketCreate, TicketStats, TicketListAssigned:
		return false
	}
	return true
}

func checkOwnership(actor *Actor, action Action, res Resource) Decision {
	switch action {
	case TicketRead, NoteRead, NoteCreate, AttachmentRead, AttachmentUpload:
		return canSeeTicket(actor, res.Ticket)

	case TicketUpdate:
		if actor.IsStaff() {
			return permit()
		}
		if d := canSeeTicket(actor, res.Ticket); !d.Allowed() {
			return d
		}
		if res.Change.staffOnly() {
			return deny(Forbidden, "Only staff can change status, assignment or department")
		}
		if !res.Ticket.Status.AllowsOwnerEdit() {
			return deny(Forbidden, "Can only update open tickets")
		}
		return permit()

	case NoteUpdate, NoteDelete:
		if actor.IsAdmin() || res.Note.AuthorID == actor.ID {
			return permit()
		}
		return deny(Forbidden, "You can only modify your own notes")

	case AttachmentDelete:
		if actor.IsAdmin() ||
			res.Attachment.UploaderID == actor.ID ||
			res.Ticket.OwnerID == actor.ID {
			return permit()
		}
		return deny(Forbidden, "You cannot delete this attachment")

	case UserRead, UserUpdate:
		if actor.IsAdmin() || res.SubjectUserID == actor.ID {
			return permit()
		}
		return deny(Forbidden, "You can only access your own profile")
	}
	return permit()
}

// canSeeTicket is the visibility rule shared by tickets, notes and
// attachments: staff see everything, users only their own tickets.
func canSeeTicket(actor *Actor, t *TicketRef) Decision {
	if actor.IsStaff() || t.OwnerID == actor.ID {
		return permit()
	}
	return deny(Forbidden, "Access denied")
}

func forbiddenReason(action Action) string {
	switch action {
	case TicketDelete, StorageStats, DepartmentManage, UserManage, UserList, UserChangeRole:
		return "Admin access required"
	case TicketChangeStatus, TicketAssign, TicketStats, TicketListAssigned, NoteListByUser, UserListAgents:
		return "Admin or agent access required"
	}
	return "Access denied"
}
