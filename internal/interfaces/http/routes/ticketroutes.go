package routes

import (
	"github.com/gin-gonic/gin"

	"helpdesk/internal/infrastructure/ratelimit"
	tickethandlers "helpdesk/internal/interfaces/http/handlers/ticket"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/constants"
)

type TicketRouteConfig struct {
	TicketHandler     *tickethandlers.TicketHandler
	NoteHandler       *tickethandlers.NoteHandler
	AttachmentHandler *tickethandlers.AttachmentHandler
	AuthMiddleware    *middleware.AuthMiddleware
	RateLimiter       *middleware.RateLimiter
	UploadRule        ratelimit.Rule
}

func SetupTicketRoutes(api *gin.RouterGroup, config *TicketRouteConfig) {
	tickets := api.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		// IMPORTANT: Register specific paths BEFORE parameterized paths to avoid route conflicts

		// Collection operations (no ID parameter)
		tickets.POST("",
			config.TicketHandler.CreateTicket)
		tickets.GET("",
			config.TicketHandler.ListTickets)
		tickets.GET("/stats",
			config.TicketHandler.Stats)
		tickets.GET("/assigned",
			config.TicketHandler.ListAssigned)

		// Specific action endpoints
		tickets.POST("/:id/assign",
			config.TicketHandler.AssignTicket)
		tickets.PATCH("/:id/status",
			config.TicketHandler.ChangeStatus)

		// Notes
		tickets.GET("/:id/notes", config.NoteHandler.List)
		tickets.POST("/:id/notes", config.NoteHandler.Create)
		tickets.GET("/:id/notes/:noteId", config.NoteHandler.Get)
		tickets.PUT("/:id/notes/:noteId", config.NoteHandler.Update)
		tickets.DELETE("/:id/notes/:noteId", config.NoteHandler.Delete)

		// Attachments; the upload use case records the attempt
		tickets.POST("/:id/attachments",
			config.RateLimiter.Inspect(constants.ActionFileUpload, config.UploadRule, middleware.ByUser),
			config.AttachmentHandler.Upload)
		tickets.GET("/:id/attachments", config.AttachmentHandler.List)
		tickets.GET("/:id/attachments/:attachmentId/download", config.AttachmentHandler.Download)
		tickets.DELETE("/:id/attachments/:attachmentId", config.AttachmentHandler.Delete)

		// Generic parameterized routes (must come LAST)
		tickets.GET("/:id",
			config.TicketHandler.GetTicket)
		tickets.PUT("/:id",
			config.TicketHandler.UpdateTicket)
		tickets.DELETE("/:id",
			config.TicketHandler.DeleteTicket)
	}

	attachments := api.Group("/attachments")
	attachments.Use(config.AuthMiddleware.RequireAuth())
	{
		attachments.GET("/stats", config.AttachmentHandler.StorageStats)
	}
}
