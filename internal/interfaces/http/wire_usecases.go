package http

import (
	authUsecases "helpdesk/internal/application/auth/usecases"
	departmentUsecases "helpdesk/internal/application/department/usecases"
	ticketUsecases "helpdesk/internal/application/ticket/usecases"
	userUsecases "helpdesk/internal/application/user/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Auth
	registerUC   *authUsecases.RegisterUseCase
	loginUC      *authUsecases.LoginUseCase
	getProfileUC *authUsecases.GetProfileUseCase

	// Users
	listUsersUC  *userUsecases.ListUsersUseCase
	listAgentsUC *userUsecases.ListAgentsUseCase
	getUserUC    *userUsecases.GetUserUseCase
	createUserUC *userUsecases.CreateUserUseCase
	updateUserUC *userUsecases.UpdateUserUseCase
	deleteUserUC *userUsecases.DeleteUserUseCase

	// Departments
	listDepartmentsUC  *departmentUsecases.ListDepartmentsUseCase
	getDepartmentUC    *departmentUsecases.GetDepartmentUseCase
	createDepartmentUC *departmentUsecases.CreateDepartmentUseCase
	updateDepartmentUC *departmentUsecases.UpdateDepartmentUseCase
	deleteDepartmentUC *departmentUsecases.DeleteDepartmentUseCase

	// Tickets
	createTicketUC *ticketUsecases.CreateTicketUseCase
	listTicketsUC  *ticketUsecases.ListTicketsUseCase
	getTicketUC    *ticketUsecases.GetTicketUseCase
	updateTicketUC *ticketUsecases.UpdateTicketUseCase
	deleteTicketUC *ticketUsecases.DeleteTicketUseCase
	assignTicketUC *ticketUsecases.AssignTicketUseCase
	changeStatusUC *ticketUsecases.ChangeStatusUseCase
	ticketStatsUC  *ticketUsecases.GetTicketStatsUseCase
	listAssignedUC *ticketUsecases.ListAssignedUseCase
	noteUCs        *ticketUsecases.NoteUseCases
	attachmentUCs  *ticketUsecases.AttachmentUseCases
}

// ============================================================
// Section 2: Use cases
// ============================================================

func (c *Container) initUseCases() {
	cfg := c.cfg
	log := c.log
	r := c.repos

	c.ucs = &allUseCases{
		registerUC:   authUsecases.NewRegisterUseCase(r.userRepo, c.hasher, log),
		loginUC:      authUsecases.NewLoginUseCase(r.userRepo, c.hasher, c.limiter, rateRule(cfg.RateLimit.Login), log),
		getProfileUC: authUsecases.NewGetProfileUseCase(r.userRepo, log),

		listUsersUC:  userUsecases.NewListUsersUseCase(r.userRepo, c.policy, log),
		listAgentsUC: userUsecases.NewListAgentsUseCase(r.userRepo, c.policy, log),
		getUserUC:    userUsecases.NewGetUserUseCase(r.userRepo, c.policy, log),
		createUserUC: userUsecases.NewCreateUserUseCase(r.userRepo, c.hasher, c.policy, log),
		updateUserUC: userUsecases.NewUpdateUserUseCase(r.userRepo, c.hasher, c.policy, log),
		deleteUserUC: userUsecases.NewDeleteUserUseCase(r.userRepo, c.tokens, c.policy, log),

		listDepartmentsUC:  departmentUsecases.NewListDepartmentsUseCase(r.departmentRepo, c.policy, log),
		getDepartmentUC:    departmentUsecases.NewGetDepartmentUseCase(r.departmentRepo, c.policy, log),
		createDepartmentUC: departmentUsecases.NewCreateDepartmentUseCase(r.departmentRepo, c.policy, log),
		updateDepartmentUC: departmentUsecases.NewUpdateDepartmentUseCase(r.departmentRepo, c.policy, log),
		deleteDepartmentUC: departmentUsecases.NewDeleteDepartmentUseCase(r.departmentRepo, c.policy, log),

		createTicketUC: ticketUsecases.NewCreateTicketUseCase(r.ticketRepo, r.departmentRepo, c.policy, c.renderer, log),
		listTicketsUC:  ticketUsecases.NewListTicketsUseCase(r.ticketRepo, c.renderer, log),
		getTicketUC:    ticketUsecases.NewGetTicketUseCase(r.ticketRepo, r.noteRepo, r.attachmentRepo, c.policy, c.renderer, log),
		updateTicketUC: ticketUsecases.NewUpdateTicketUseCase(
			r.ticketRepo, r.userRepo, r.departmentRepo, c.policy, c.notifier, c.renderer, log,
		),
		deleteTicketUC: ticketUsecases.NewDeleteTicketUseCase(r.ticketRepo, r.attachmentRepo, c.files, c.policy, log),
		assignTicketUC: ticketUsecases.NewAssignTicketUseCase(r.ticketRepo, r.userRepo, c.policy, c.notifier, c.renderer, log),
		changeStatusUC: ticketUsecases.NewChangeStatusUseCase(r.ticketRepo, c.policy, c.notifier, c.renderer, log),
		ticketStatsUC:  ticketUsecases.NewGetTicketStatsUseCase(r.ticketRepo, c.policy, log),
		listAssignedUC: ticketUsecases.NewListAssignedUseCase(r.ticketRepo, c.policy, c.renderer, log),
		noteUCs:        ticketUsecases.NewNoteUseCases(r.ticketRepo, r.noteRepo, r.userRepo, c.policy, c.renderer, log),
		attachmentUCs: ticketUsecases.NewAttachmentUseCases(
			r.ticketRepo, r.attachmentRepo, c.files, c.limiter, c.policy,
			ticketUsecases.UploadConfig{
				MaxSize:      cfg.Uploads.MaxSize,
				AllowedTypes: cfg.Uploads.AllowedTypes,
				Rule:         rateRule(cfg.RateLimit.Upload),
			},
			log,
		),
	}
}
