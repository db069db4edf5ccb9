package access

import "strings"

// Action is "<object>:<verb>". The object half is the resource kind the role
// matrix is keyed on.
type Action string

const (
	TicketCreate       Action = "ticket:create"
	TicketRead         Action = "ticket:read"
	TicketUpdate       Action = "ticket:update"
	TicketChangeStatus Action = "ticket:change_status"
	TicketAssign       Action = "ticket:assign"
	TicketDelete       Action = "ticket:delete"
	TicketStats        Action = "ticket:stats"
	TicketListAssigned Action = "ticket:list_assigned"

	NoteRead       Action = "note:read"
	NoteCreate     Action = "note:create"
	NoteUpdate     Action = "note:update"
	NoteDelete     Action = "note:delete"
	NoteListByUser Action = "note:list_by_user"

	AttachmentRead   Action = "attachment:read"
	AttachmentUpload Action = "attachment:upload"
	AttachmentDelete Action = "attachment:delete"
	StorageStats     Action = "storage:stats"

	DepartmentRead   Action = "department:read"
	DepartmentManage Action = "department:manage"

	UserRead       Action = "user:read"
	UserUpdate     Action = "user:update"
	UserChangeRole Action = "user:change_role"
	UserList       Action = "user:list"
	UserManage     Action = "user:manage"
	UserListAgents Action = "user:list_agents"
)

func (a Action) Object() string {
	obj, _, _ := strings.Cut(string(a), ":")
	return obj
}

func (a Action) Verb() string {
	_, verb, _ := strings.Cut(string(a), ":")
	return verb
}
