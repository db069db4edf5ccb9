package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// NoteHandler serves the notes thread of a ticket.
type NoteHandler struct {
	notes  noteService
	logger logger.Interface
}

func NewNoteHandler(notes noteService, log logger.Interface) *NoteHandler {
	return &NoteHandler{notes: notes, logger: log}
}

func parseNoteIDs(c *gin.Context) (uint, uint, error) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return 0, 0, err
	}
	noteID, err := utils.ParseUintParam(c, "noteId", "note")
	if err != nil {
		return 0, 0, err
	}
	return ticketID, noteID, nil
}

// List handles GET /tickets/:id/notes
// @Summary List notes of a ticket
// @Tags notes
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id}/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	notes, err := h.notes.List(c.Request.Context(), middleware.CurrentActor(c), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", notes)
}

// Get handles GET /tickets/:id/notes/:noteId
func (h *NoteHandler) Get(c *gin.Context) {
	ticketID, noteID, err := parseNoteIDs(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	note, err := h.notes.Get(c.Request.Context(), middleware.CurrentActor(c), ticketID, noteID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", note)
}

// Create handles POST /tickets/:id/notes
// @Summary Add a note
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param body body dto.NoteRequest true "Note"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /tickets/{id}/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	note, err := h.notes.Create(c.Request.Context(), middleware.CurrentActor(c), ticketID, req.Note)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, note, "Note added successfully")
}

// Update handles PUT /tickets/:id/notes/:noteId
// @Summary Edit a note
// @Description Only the author or an admin may edit a note.
// @Tags notes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param noteId path int true "Note ID"
// @Param body body dto.NoteRequest true "Note"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id}/notes/{noteId} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	ticketID, noteID, err := parseNoteIDs(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	note, err := h.notes.Update(c.Request.Context(), middleware.CurrentActor(c), ticketID, noteID, req.Note)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Note updated successfully", note)
}

// Delete handles DELETE /tickets/:id/notes/:noteId
func (h *NoteHandler) Delete(c *gin.Context) {
	ticketID, noteID, err := parseNoteIDs(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.notes.Delete(c.Request.Context(), middleware.CurrentActor(c), ticketID, noteID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ListByUser handles GET /users/:id/notes
// @Summary Notes written by a user
// @Tags notes
// @Produce json
// @Security Bearer
// @Param id path int true "User ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /users/{id}/notes [get]
func (h *NoteHandler) ListByUser(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	notes, err := h.notes.ListByUser(c.Request.Context(), middleware.CurrentActor(c), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", notes)
}
