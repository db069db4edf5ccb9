package http

import (
	"context"

	"helpdesk/internal/infrastructure/database"
	"helpdesk/internal/interfaces/http/handlers"
	departmentHandlers "helpdesk/internal/interfaces/http/handlers/department"
	ticketHandlers "helpdesk/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	// System
	healthHandler *handlers.HealthHandler

	// User & Auth
	authHandler *handlers.AuthHandler
	userHandler *handlers.UserHandler

	// Department
	departmentHandler *departmentHandlers.Handler

	// Ticket
	ticketHandler     *ticketHandlers.TicketHandler
	noteHandler       *ticketHandlers.NoteHandler
	attachmentHandler *ticketHandlers.AttachmentHandler
}

// ============================================================
// Section 3: Handlers
// ============================================================

func (c *Container) initHandlers() {
	log := c.log
	u := c.ucs

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, c.db)
		}, log),

		authHandler: handlers.NewAuthHandler(u.registerUC, u.loginUC, u.getProfileUC, c.authProvider, log),
		userHandler: handlers.NewUserHandler(
			u.listUsersUC, u.listAgentsUC, u.getUserUC, u.createUserUC, u.updateUserUC, u.deleteUserUC, log,
		),

		departmentHandler: departmentHandlers.NewHandler(
			u.listDepartmentsUC, u.getDepartmentUC, u.createDepartmentUC, u.updateDepartmentUC, u.deleteDepartmentUC, log,
		),

		ticketHandler: ticketHandlers.NewTicketHandler(
			u.createTicketUC, u.listTicketsUC, u.getTicketUC, u.updateTicketUC, u.deleteTicketUC,
			u.assignTicketUC, u.changeStatusUC, u.ticketStatsUC, u.listAssignedUC, log,
		),
		noteHandler:       ticketHandlers.NewNoteHandler(u.noteUCs, log),
		attachmentHandler: ticketHandlers.NewAttachmentHandler(u.attachmentUCs, log),
	}
}
