package models

import (
	"time"

	"gorm.io/datatypes"

	"helpdesk/internal/shared/constants"
)

// TicketModel carries no foreign key constraints; repositories keep notes and
// attachments consistent with their ticket.
type TicketModel struct {
	ID              uint      `gorm:"primaryKey"`
	Title           string    `gorm:"size:255;not null"`
	Description     string    `gorm:"type:text;not null"`
	UserID          uint      `gorm:"not null;index"`
	DepartmentID    uint      `gorm:"not null;index"`
	Status          string    `gorm:"size:20;not null;default:open;index"`
	AssignedAgentID *uint     `gorm:"index"`
	CreatedAt       time.Time `gorm:"not null;index"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

// TicketRow is a ticket joined with owner, department and agent names.
type TicketRow struct {
	TicketModel
	UserName          string
	UserEmail         string
	DepartmentName    string
	AssignedAgentName *string
}

type NoteModel struct {
	ID        uint      `gorm:"primaryKey"`
	TicketID  uint      `gorm:"not null;index"`
	UserID    uint      `gorm:"not null;index"`
	Note      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (NoteModel) TableName() string {
	return constants.TableNotes
}

type NoteRow struct {
	NoteModel
	AuthorName string
	AuthorRole string
}

type AttachmentModel struct {
	ID           uint           `gorm:"primaryKey"`
	TicketID     uint           `gorm:"not null;index"`
	UserID       uint           `gorm:"not null;index"`
	OriginalName string         `gorm:"size:255;not null"`
	StoredName   string         `gorm:"size:255;not null;uniqueIndex"`
	MimeType     string         `gorm:"size:100;not null"`
	FileSize     int64          `gorm:"not null"`
	FilePath     string         `gorm:"size:500;not null"`
	Metadata     datatypes.JSON `gorm:"type:json"`
	CreatedAt    time.Time      `gorm:"not null"`
}

func (AttachmentModel) TableName() string {
	return constants.TableAttachments
}

// AttachmentMetadata is the shape of AttachmentModel.Metadata.
type AttachmentMetadata struct {
	SHA256    string `json:"sha256,omitempty"`
	Extension string `json:"extension,omitempty"`
}

type AttachmentRow struct {
	AttachmentModel
	UploaderName string
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&DepartmentModel{},
		&TicketModel{},
		&NoteModel{},
		&AttachmentModel{},
	}
}
