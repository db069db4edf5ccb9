package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/application/ticket/usecases"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type TicketHandler struct {
	createTicketUC createTicketUseCase
	listTicketsUC  listTicketsUseCase
	getTicketUC    getTicketUseCase
	updateTicketUC updateTicketUseCase
	deleteTicketUC deleteTicketUseCase
	assignTicketUC assignTicketUseCase
	changeStatusUC changeStatusUseCase
	statsUC        ticketStatsUseCase
	listAssignedUC listAssignedUseCase
	logger         logger.Interface
}

func NewTicketHandler(
	createTicketUC createTicketUseCase,
	listTicketsUC listTicketsUseCase,
	getTicketUC getTicketUseCase,
	updateTicketUC updateTicketUseCase,
	deleteTicketUC deleteTicketUseCase,
	assignTicketUC assignTicketUseCase,
	changeStatusUC changeStatusUseCase,
	statsUC ticketStatsUseCase,
	listAssignedUC listAssignedUseCase,
	log logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC: createTicketUC,
		listTicketsUC:  listTicketsUC,
		getTicketUC:    getTicketUC,
		updateTicketUC: updateTicketUC,
		deleteTicketUC: deleteTicketUC,
		assignTicketUC: assignTicketUC,
		changeStatusUC: changeStatusUC,
		statsUC:        statsUC,
		listAssignedUC: listAssignedUC,
		logger:         log,
	}
}

func parseTicketID(c *gin.Context) (uint, error) {
	return utils.ParseUintParam(c, "id", "ticket")
}

// CreateTicket handles POST /tickets
// @Summary Create a new ticket
// @Description Open a support ticket in a department. New tickets start open and unassigned.
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param ticket body dto.CreateTicketRequest true "Ticket data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), usecases.CreateTicketCommand{
		Actor:        middleware.CurrentActor(c),
		Title:        req.Title,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket created successfully")
}

// ListTickets handles GET /tickets
// @Summary List tickets
// @Description Staff see every ticket, other users only their own.
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param status query string false "Status filter" Enums(open, in_progress, resolved, closed)
// @Param department_id query int false "Department filter"
// @Param assigned_agent_id query int false "Assigned agent filter (staff only)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	var req dto.ListTicketsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}
	p := utils.ParsePagination(c)

	result, err := h.listTicketsUC.Execute(c.Request.Context(), usecases.ListTicketsQuery{
		Actor:           middleware.CurrentActor(c),
		Status:          req.Status,
		DepartmentID:    req.DepartmentID,
		AssignedAgentID: req.AssignedAgentID,
		Page:            p.Page,
		PageSize:        p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

// ListAssigned handles GET /tickets/assigned
// @Summary Tickets assigned to the caller
// @Tags tickets
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /tickets/assigned [get]
func (h *TicketHandler) ListAssigned(c *gin.Context) {
	p := utils.ParsePagination(c)

	result, err := h.listAssignedUC.Execute(c.Request.Context(), middleware.CurrentActor(c), p.Page, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

// Stats handles GET /tickets/stats
// @Summary Ticket counts by status
// @Tags tickets
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /tickets/stats [get]
func (h *TicketHandler) Stats(c *gin.Context) {
	stats, err := h.statsUC.Execute(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}

// GetTicket handles GET /tickets/:id
// @Summary Get ticket by ID
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), middleware.CurrentActor(c), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateTicket handles PUT /tickets/:id
// @Summary Update ticket
// @Description Owners may edit title and description while the ticket is open. Staff may also change status, assignment and department; assigned_agent_id null or 0 unassigns.
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param body body dto.UpdateTicketRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /tickets/{id} [put]
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.updateTicketUC.Execute(c.Request.Context(), usecases.UpdateTicketCommand{
		Actor:           middleware.CurrentActor(c),
		TicketID:        ticketID,
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		AssignedAgentID: req.AssignedAgentID.Ptr(),
		DepartmentID:    req.DepartmentID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket updated successfully", result)
}

// DeleteTicket handles DELETE /tickets/:id
// @Summary Delete ticket with its notes and attachments
// @Tags tickets
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Success 204
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id} [delete]
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteTicketUC.Execute(c.Request.Context(), middleware.CurrentActor(c), ticketID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// AssignTicket handles POST /tickets/:id/assign
// @Summary Assign ticket
// @Description Assign a ticket to an agent or admin. The ticket moves to in_progress.
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param body body dto.AssignTicketRequest true "Assignment data"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /tickets/{id}/assign [post]
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.assignTicketUC.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		Actor:    middleware.CurrentActor(c),
		TicketID: ticketID,
		AgentID:  req.AgentID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assigned successfully", result)
}

// ChangeStatus handles PATCH /tickets/:id/status
// @Summary Change ticket status
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param body body dto.ChangeStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /tickets/{id}/status [patch]
func (h *TicketHandler) ChangeStatus(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.changeStatusUC.Execute(c.Request.Context(), usecases.ChangeStatusCommand{
		Actor:    middleware.CurrentActor(c),
		TicketID: ticketID,
		Status:   req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket status updated successfully", result)
}
