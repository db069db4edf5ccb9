package http

import (
	"gorm.io/gorm"

	"helpdesk/internal/domain/department"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/infrastructure/repository"
	"helpdesk/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	userRepo       user.Repository
	departmentRepo department.Repository
	ticketRepo     ticket.Repository
	noteRepo       ticket.NoteRepository
	attachmentRepo ticket.AttachmentRepository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:       repository.NewUserRepository(db, log),
		departmentRepo: repository.NewDepartmentRepository(db, log),
		ticketRepo:     repository.NewTicketRepository(db, log),
		noteRepo:       repository.NewNoteRepository(db, log),
		attachmentRepo: repository.NewAttachmentRepository(db, log),
	}
}
