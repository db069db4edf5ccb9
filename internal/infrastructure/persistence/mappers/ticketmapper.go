package mappers

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gorm.io/datatypes"

	"helpdesk/internal/domain/ticket"
	vo "helpdesk/internal/domain/ticket/valueobjects"
	uservo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/infrastructure/persistence/models"
)

// TicketMapper converts tickets, notes and attachments.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(row *models.TicketRow) (*ticket.Ticket, error)

	NoteToModel(n *ticket.Note) *models.NoteModel
	NoteToDomain(row *models.NoteRow) (*ticket.Note, error)

	AttachmentToModel(a *ticket.Attachment) (*models.AttachmentModel, error)
	AttachmentToDomain(row *models.AttachmentRow) (*ticket.Attachment, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:              t.ID(),
		Title:           t.Title(),
		Description:     t.Description(),
		UserID:          t.OwnerID(),
		DepartmentID:    t.DepartmentID(),
		Status:          t.Status().String(),
		AssignedAgentID: t.AssignedAgentID(),
		CreatedAt:       t.CreatedAt(),
		UpdatedAt:       t.UpdatedAt(),
	}
}

func (m *TicketMapperImpl) ToDomain(row *models.TicketRow) (*ticket.Ticket, error) {
	status, err := vo.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", row.ID, err)
	}

	participants := ticket.Participants{
		OwnerName:      row.UserName,
		OwnerEmail:     row.UserEmail,
		DepartmentName: row.DepartmentName,
	}
	if row.AssignedAgentName != nil {
		participants.AssignedAgentName = *row.AssignedAgentName
	}

	return ticket.ReconstructTicket(
		row.ID,
		row.Title, row.Description,
		row.UserID, row.DepartmentID,
		status,
		row.AssignedAgentID,
		row.CreatedAt, row.UpdatedAt,
		participants,
	)
}

func (m *TicketMapperImpl) NoteToModel(n *ticket.Note) *models.NoteModel {
	return &models.NoteModel{
		ID:        n.ID(),
		TicketID:  n.TicketID(),
		UserID:    n.AuthorID(),
		Note:      n.Text(),
		CreatedAt: n.CreatedAt(),
		UpdatedAt: n.UpdatedAt(),
	}
}

func (m *TicketMapperImpl) NoteToDomain(row *models.NoteRow) (*ticket.Note, error) {
	return ticket.ReconstructNote(
		row.ID, row.TicketID, row.UserID,
		row.Note,
		row.CreatedAt, row.UpdatedAt,
		row.AuthorName, uservo.Role(row.AuthorRole),
	)
}

func (m *TicketMapperImpl) AttachmentToModel(a *ticket.Attachment) (*models.AttachmentModel, error) {
	meta, err := json.Marshal(models.AttachmentMetadata{
		SHA256:    a.Checksum(),
		Extension: strings.TrimPrefix(strings.ToLower(filepath.Ext(a.OriginalName())), "."),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode attachment metadata: %w", err)
	}

	return &models.AttachmentModel{
		ID:           a.ID(),
		TicketID:     a.TicketID(),
		UserID:       a.UploaderID(),
		OriginalName: a.OriginalName(),
		StoredName:   a.StoredName(),
		MimeType:     a.MimeType(),
		FileSize:     a.Size(),
		FilePath:     a.Path(),
		Metadata:     datatypes.JSON(meta),
		CreatedAt:    a.CreatedAt(),
	}, nil
}

func (m *TicketMapperImpl) AttachmentToDomain(row *models.AttachmentRow) (*ticket.Attachment, error) {
	var meta models.AttachmentMetadata
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &meta); err != nil {
			return nil, fmt.Errorf("attachment %d has corrupt metadata: %w", row.ID, err)
		}
	}

	return ticket.ReconstructAttachment(
		row.ID, row.TicketID, row.UserID,
		row.OriginalName, row.StoredName, row.MimeType,
		row.FileSize, row.FilePath, meta.SHA256,
		row.CreatedAt, row.UploaderName,
	)
}
