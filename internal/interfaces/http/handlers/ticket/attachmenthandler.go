package ticket

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/ticket/usecases"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// Multipart field names accepted for uploads.
var uploadFields = []string{"files[]", "files"}

type AttachmentHandler struct {
	attachments attachmentService
	logger      logger.Interface
}

func NewAttachmentHandler(attachments attachmentService, log logger.Interface) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, logger: log}
}

func parseAttachmentIDs(c *gin.Context) (uint, uint, error) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		return 0, 0, err
	}
	attachmentID, err := utils.ParseUintParam(c, "attachmentId", "attachment")
	if err != nil {
		return 0, 0, err
	}
	return ticketID, attachmentID, nil
}

// Upload handles POST /tickets/:id/attachments
// @Summary Upload attachments
// @Description Each file is stored independently. Returns 201 when at least one file was stored and 400 when all were rejected; rejected files are listed in errors.
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param files[] formData file true "Files"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /tickets/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		for _, field := range uploadFields {
			headers = append(headers, form.File[field]...)
		}
	} else if err != http.ErrNotMultipart {
		h.logger.Warnw("failed to parse multipart form", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("Invalid multipart form", err.Error()))
		return
	}

	files := make([]usecases.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadFile(fh))
	}

	result, err := h.attachments.Upload(c.Request.Context(), usecases.UploadCommand{
		Actor:    middleware.CurrentActor(c),
		TicketID: ticketID,
		Files:    files,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.UploadCount == 0 {
		c.JSON(http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Data:    result,
			Error: &utils.ErrorInfo{
				Type:    string(errors.ErrorTypeValidation),
				Message: "No files were uploaded",
			},
		})
		return
	}

	msg := "Files uploaded successfully"
	if len(result.Errors) > 0 {
		msg = fmt.Sprintf("Uploaded %d of %d files", result.UploadCount, len(files))
	}
	utils.CreatedResponse(c, result, msg)
}

func uploadFile(fh *multipart.FileHeader) usecases.UploadFile {
	return usecases.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadSeekCloser, error) {
			return fh.Open()
		},
	}
}

// List handles GET /tickets/:id/attachments
// @Summary List attachments of a ticket
// @Tags attachments
// @Produce json
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Success 200 {object} utils.APIResponse
// @Router /tickets/{id}/attachments [get]
func (h *AttachmentHandler) List(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	attachments, err := h.attachments.List(c.Request.Context(), middleware.CurrentActor(c), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", attachments)
}

// Download handles GET /tickets/:id/attachments/:attachmentId/download
// @Summary Download an attachment
// @Tags attachments
// @Produce octet-stream
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param attachmentId path int true "Attachment ID"
// @Success 200 {file} file
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id}/attachments/{attachmentId}/download [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	ticketID, attachmentID, err := parseAttachmentIDs(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	dl, err := h.attachments.Download(c.Request.Context(), middleware.CurrentActor(c), ticketID, attachmentID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	defer dl.File.Close()

	a := dl.Attachment
	c.Header("Content-Type", a.MimeType)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.OriginalName}))
	c.Header("X-Content-Type-Options", "nosniff")
	http.ServeContent(c.Writer, c.Request, a.OriginalName, a.CreatedAt, dl.File)
}

// Delete handles DELETE /tickets/:id/attachments/:attachmentId
// @Summary Delete an attachment
// @Tags attachments
// @Security Bearer
// @Param id path int true "Ticket ID"
// @Param attachmentId path int true "Attachment ID"
// @Success 204
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id}/attachments/{attachmentId} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	ticketID, attachmentID, err := parseAttachmentIDs(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.attachments.Delete(c.Request.Context(), middleware.CurrentActor(c), ticketID, attachmentID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// StorageStats handles GET /attachments/stats
// @Summary Attachment storage totals
// @Tags attachments
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /attachments/stats [get]
func (h *AttachmentHandler) StorageStats(c *gin.Context) {
	stats, err := h.attachments.StorageStats(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}
