package access

import (
	vo "helpdesk/internal/domain/user/valueobjects"
)

// RoleMatrix answers the coarse question "may this role ever perform this
// action". Ownership is decided afterwards by Policy.
type RoleMatrix interface {
	Allows(role vo.Role, action Action) bool
}

var userGrants = []Action{
	TicketCreate, TicketRead, TicketUpdate,
	NoteRead, NoteCreate, NoteUpdate, NoteDelete,
	AttachmentRead, AttachmentUpload, AttachmentDelete,
	DepartmentRead,
	UserRead, UserUpdate,
}

var agentGrants = append(append([]Action{}, userGrants...),
	TicketChangeStatus, TicketAssign, TicketStats, TicketListAssigned,
	NoteListByUser,
	UserListAgents,
)

var adminGrants = append(append([]Action{}, agentGrants...),
	TicketDelete,
	StorageStats,
	DepartmentManage,
	UserChangeRole, UserList, UserManage,
)

// DefaultGrants is the built-in role matrix. The casbin enforcer is seeded
// from it.
func DefaultGrants() map[vo.Role][]Action {
	return map[vo.Role][]Action{
		vo.RoleUser:  append([]Action{}, userGrants...),
		vo.RoleAgent: append([]Action{}, agentGrants...),
		vo.RoleAdmin: append([]Action{}, adminGrants...),
	}
}

type staticMatrix map[vo.Role]map[Action]struct{}

// StaticMatrix serves DefaultGrants from memory.
func StaticMatrix() RoleMatrix {
	m := staticMatrix{}
	for role, actions := range DefaultGrants() {
		set := make(map[Action]struct{}, len(actions))
		for _, a := range actions {
			set[a] = struct{}{}
		}
		m[role] = set
	}
	return m
}

func (m staticMatrix) Allows(role vo.Role, action Action) bool {
	_, ok := m[role][action]
	return ok
}
