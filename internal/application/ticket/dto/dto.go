package dto

import (
	"encoding/json"
	"time"

	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/shared/mapper"
	"helpdesk/internal/shared/utils"
)

// Renderer turns user text into sanitized HTML.
type Renderer interface {
	Render(text string) string
}

type CreateTicketRequest struct {
	Title        string `json:"title" binding:"required,max=255"`
	Description  string `json:"description" binding:"required"`
	DepartmentID uint   `json:"department_id" binding:"required,min=1"`
}

// UpdateTicketRequest holds optional fields. Status, assignment and
// department are staff-only.
type UpdateTicketRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=open in_progress resolved closed"`
	// AssignedAgentID unassigns when sent as null or 0.
	AssignedAgentID OptionalID `json:"assigned_agent_id,omitzero" swaggertype:"integer" extensions:"x-nullable"`
	DepartmentID    *uint      `json:"department_id,omitempty"`
}

// OptionalID tells an absent field apart from an explicit null. A null
// decodes as Set with a zero Value.
type OptionalID struct {
	Set   bool
	Value uint
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = 0
	if string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns nil when the field was absent.
func (o OptionalID) Ptr() *uint {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type AssignTicketRequest struct {
	AgentID uint `json:"agent_id" binding:"required,min=1"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
}

type ListTicketsRequest struct {
	Status          string `form:"status" binding:"omitempty,oneof=open in_progress resolved closed"`
	DepartmentID    uint   `form:"department_id"`
	AssignedAgentID uint   `form:"assigned_agent_id"`
}

type NoteRequest struct {
	Note string `json:"note" binding:"required"`
}

type TicketResponse struct {
	ID                uint      `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	DescriptionHTML   string    `json:"description_html"`
	Status            string    `json:"status"`
	UserID            uint      `json:"user_id"`
	UserName          string    `json:"user_name"`
	UserEmail         string    `json:"user_email"`
	DepartmentID      uint      `json:"department_id"`
	DepartmentName    string    `json:"department_name"`
	AssignedAgentID   *uint     `json:"assigned_agent_id"`
	AssignedAgentName *string   `json:"assigned_agent_name"`
	NoteCount         *int64    `json:"note_count,omitempty"`
	AttachmentCount   *int64    `json:"attachment_count,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func ToTicketResponse(t *ticket.Ticket, md Renderer) *TicketResponse {
	if t == nil {
		return nil
	}
	p := t.Participants()
	resp := &TicketResponse{
		ID:              t.ID(),
		Title:           t.Title(),
		Description:     t.Description(),
		DescriptionHTML: md.Render(t.Description()),
		Status:          t.Status().String(),
		UserID:          t.OwnerID(),
		UserName:        p.OwnerName,
		UserEmail:       p.OwnerEmail,
		DepartmentID:    t.DepartmentID(),
		DepartmentName:  p.DepartmentName,
		AssignedAgentID: t.AssignedAgentID(),
		CreatedAt:       t.CreatedAt(),
		UpdatedAt:       t.UpdatedAt(),
	}
	if t.AssignedAgentID() != nil {
		name := p.AssignedAgentName
		resp.AssignedAgentName = &name
	}
	return resp
}

func ToTicketResponses(ts []*ticket.Ticket, md Renderer) []*TicketResponse {
	return mapper.Slice(ts, func(t *ticket.Ticket) *TicketResponse {
		return ToTicketResponse(t, md)
	})
}

type TicketListResponse struct {
	Tickets  []*TicketResponse
	Total    int64
	Page     int
	PageSize int
}

type TicketStatsResponse struct {
	TotalTickets int64            `json:"total_tickets"`
	ByStatus     map[string]int64 `json:"by_status"`
}

type NoteResponse struct {
	ID         uint      `json:"id"`
	TicketID   uint      `json:"ticket_id"`
	UserID     uint      `json:"user_id"`
	Note       string    `json:"note"`
	NoteHTML   string    `json:"note_html"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToNoteResponse(n *ticket.Note, md Renderer) *NoteResponse {
	return &NoteResponse{
		ID:         n.ID(),
		TicketID:   n.TicketID(),
		UserID:     n.AuthorID(),
		Note:       n.Text(),
		NoteHTML:   md.Render(n.Text()),
		AuthorName: n.AuthorName(),
		AuthorRole: n.AuthorRole().String(),
		CreatedAt:  n.CreatedAt(),
		UpdatedAt:  n.UpdatedAt(),
	}
}

func ToNoteResponses(ns []*ticket.Note, md Renderer) []*NoteResponse {
	return mapper.Slice(ns, func(n *ticket.Note) *NoteResponse {
		return ToNoteResponse(n, md)
	})
}

// AttachmentResponse omits the storage path.
type AttachmentResponse struct {
	ID            uint      `json:"id"`
	TicketID      uint      `json:"ticket_id"`
	UserID        uint      `json:"user_id"`
	UploaderName  string    `json:"uploader_name"`
	OriginalName  string    `json:"original_name"`
	StoredName    string    `json:"stored_name"`
	MimeType      string    `json:"mime_type"`
	FileSize      int64     `json:"file_size"`
	SizeFormatted string    `json:"size_formatted"`
	Checksum      string    `json:"checksum,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToAttachmentResponse(a *ticket.Attachment) *AttachmentResponse {
	return &AttachmentResponse{
		ID:            a.ID(),
		TicketID:      a.TicketID(),
		UserID:        a.UploaderID(),
		UploaderName:  a.UploaderName(),
		OriginalName:  a.OriginalName(),
		StoredName:    a.StoredName(),
		MimeType:      a.MimeType(),
		FileSize:      a.Size(),
		SizeFormatted: utils.FormatBytes(a.Size()),
		Checksum:      a.Checksum(),
		CreatedAt:     a.CreatedAt(),
	}
}

func ToAttachmentResponses(as []*ticket.Attachment) []*AttachmentResponse {
	return mapper.Slice(as, ToAttachmentResponse)
}

// UploadError reports one rejected file of a batch.
type UploadError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type UploadResponse struct {
	Uploaded    []*AttachmentResponse `json:"uploaded"`
	UploadCount int                   `json:"upload_count"`
	Errors      []UploadError         `json:"errors,omitempty"`
}

type StorageStatsResponse struct {
	TotalFiles         int64  `json:"total_files"`
	TotalSize          int64  `json:"total_size"`
	AvgSize            int64  `json:"avg_size"`
	TotalSizeFormatted string `json:"total_size_formatted"`
	AvgSizeFormatted   string `json:"avg_size_formatted"`
}

func ToStorageStatsResponse(s ticket.StorageStats) *StorageStatsResponse {
	return &StorageStatsResponse{
		TotalFiles:         s.TotalFiles,
		TotalSize:          s.TotalSize,
		AvgSize:            s.AverageSize(),
		TotalSizeFormatted: utils.FormatBytes(s.TotalSize),
		AvgSizeFormatted:   utils.FormatBytes(s.AverageSize()),
	}
}
