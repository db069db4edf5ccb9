package ticket

import (
	"fmt"
	"time"
)

// MaxAttachmentSize caps a single uploaded file.
const MaxAttachmentSize int64 = 10 << 20

type Attachment struct {
	id           uint
	ticketID     uint
	uploaderID   uint
	originalName string
	storedName   string
	mimeType     string
	size         int64
	path         string
	checksum     string
	createdAt    time.Time
	uploaderName string
}

func NewAttachment(ticketID, uploaderID uint, originalName, storedName, mimeType string, size int64, path, checksum string) (*Attachment, error) {
	if ticketID == 0 || uploaderID == 0 {
		return nil, fmt.Errorf("ticket and uploader are required")
	}
	if originalName == "" || storedName == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if size <= 0 {
		return nil, fmt.Errorf("file is empty")
	}
	if size > MaxAttachmentSize {
		return nil, fmt.Errorf("file exceeds the %d byte limit", MaxAttachmentSize)
	}
	return &Attachment{
		ticketID:     ticketID,
		uploaderID:   uploaderID,
		originalName: originalName,
		storedName:   storedName,
		mimeType:     mimeType,
		size:         size,
		path:         path,
		checksum:     checksum,
		createdAt:    time.Now(),
	}, nil
}

func ReconstructAttachment(id, ticketID, uploaderID uint, originalName, storedName, mimeType string, size int64, path, checksum string, createdAt time.Time, uploaderName string) (*Attachment, error) {
	if id == 0 {
		return nil, fmt.Errorf("attachment ID cannot be zero")
	}
	return &Attachment{
		id:           id,
		ticketID:     ticketID,
		uploaderID:   uploaderID,
		originalName: originalName,
		storedName:   storedName,
		mimeType:     mimeType,
		size:         size,
		path:         path,
		checksum:     checksum,
		createdAt:    createdAt,
		uploaderName: uploaderName,
	}, nil
}

func (a *Attachment) ID() uint             { return a.id }
func (a *Attachment) TicketID() uint       { return a.ticketID }
func (a *Attachment) UploaderID() uint     { return a.uploaderID }
func (a *Attachment) OriginalName() string { return a.originalName }
func (a *Attachment) StoredName() string   { return a.storedName }
func (a *Attachment) MimeType() string     { return a.mimeType }
func (a *Attachment) Size() int64          { return a.size }
func (a *Attachment) Path() string         { return a.path }
func (a *Attachment) Checksum() string     { return a.checksum }
func (a *Attachment) CreatedAt() time.Time { return a.createdAt }
func (a *Attachment) UploaderName() string { return a.uploaderName }

func (a *Attachment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("attachment ID is already set")
	}
	a.id = id
	return nil
}

func (a *Attachment) BelongsTo(ticketID uint) bool {
	return a.ticketID == ticketID
}
