package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"helpdesk/internal/application/ticket/dto"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/infrastructure/storage"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// UploadLimiter is the part of the rate limiter uploads need.
type UploadLimiter interface {
	CheckAndRecord(ctx context.Context, identifier, action string, rule ratelimit.Rule, record bool) (ratelimit.Result, error)
}

// UploadFile is one part of a multipart batch.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadSeekCloser, error)
}

type UploadCommand struct {
	Actor    *access.Actor
	TicketID uint
	Files    []UploadFile
}

type UploadConfig struct {
	MaxSize      int64
	AllowedTypes []string
	Rule         ratelimit.Rule
}

// Download is an open attachment blob. The caller closes File.
type Download struct {
	Attachment *dto.AttachmentResponse
	File       afero.File
}

type AttachmentUseCases struct {
	ticketRepo     ticket.Repository
	attachmentRepo ticket.AttachmentRepository
	files          storage.FileStorage
	limiter        UploadLimiter
	policy         *access.Policy
	cfg            UploadConfig
	logger         logger.Interface
}

func NewAttachmentUseCases(
	ticketRepo ticket.Repository,
	attachmentRepo ticket.AttachmentRepository,
	files storage.FileStorage,
	limiter UploadLimiter,
	policy *access.Policy,
	cfg UploadConfig,
	logger logger.Interface,
) *AttachmentUseCases {
	if cfg.MaxSize <= 0 || cfg.MaxSize > ticket.MaxAttachmentSize {
		cfg.MaxSize = ticket.MaxAttachmentSize
	}
	return &AttachmentUseCases{
		ticketRepo:     ticketRepo,
		attachmentRepo: attachmentRepo,
		files:          files,
		limiter:        limiter,
		policy:         policy,
		cfg:            cfg,
		logger:         logger,
	}
}

// Upload stores each file of the batch independently. A file that fails is
// reported in Errors and never undoes the files stored before it. The batch
// counts as one attempt against the caller's upload quota.
func (uc *AttachmentUseCases) Upload(ctx context.Context, cmd UploadCommand) (*dto.UploadResponse, error) {
	if err := requireActor(cmd.Actor); err != nil {
		return nil, err
	}
	identifier := strconv.FormatUint(uint64(cmd.Actor.ID), 10)
	res, err := uc.limiter.CheckAndRecord(ctx, identifier, constants.ActionFileUpload, uc.cfg.Rule, true)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to check rate limit")
	}
	if !res.Allowed {
		uc.logger.Warnw("upload rate limit exceeded", "user_id", cmd.Actor.ID)
		return nil, errors.NewRateLimitError("Upload limit exceeded. Please try again later.", res.ResetAt, res.Remaining)
	}

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Decide(cmd.Actor, access.AttachmentUpload, access.AttachmentResource(t, nil)).Err(); err != nil {
		return nil, err
	}
	if len(cmd.Files) == 0 {
		return nil, errors.NewValidationError("No files uploaded")
	}

	resp := &dto.UploadResponse{Uploaded: []*dto.AttachmentResponse{}}
	for _, f := range cmd.Files {
		a, msg := uc.store(ctx, cmd.Actor.ID, t.ID(), f)
		if msg != "" {
			resp.Errors = append(resp.Errors, dto.UploadError{File: f.Name, Error: msg})
			continue
		}
		resp.Uploaded = append(resp.Uploaded, dto.ToAttachmentResponse(a))
	}
	resp.UploadCount = len(resp.Uploaded)

	uc.logger.Infow("attachments uploaded",
		"ticket_id", t.ID(),
		"user_id", cmd.Actor.ID,
		"stored", resp.UploadCount,
		"rejected", len(resp.Errors))
	return resp, nil
}

// store saves one file and returns the reason it was rejected, if any.
func (uc *AttachmentUseCases) store(ctx context.Context, uploaderID, ticketID uint, f UploadFile) (*ticket.Attachment, string) {
	tooLarge := fmt.Sprintf("File %q exceeds maximum size of %s", f.Name, utils.FormatBytes(uc.cfg.MaxSize))
	if f.Size > uc.cfg.MaxSize {
		return nil, tooLarge
	}
	if f.Size == 0 {
		return nil, fmt.Sprintf("File %q is empty", f.Name)
	}

	r, err := f.Open()
	if err != nil {
		uc.logger.Warnw("failed to open upload", "file", f.Name, "error", err)
		return nil, fmt.Sprintf("Failed to read file %q", f.Name)
	}
	defer r.Close()

	detected, err := storage.DetectMIME(r)
	if err != nil {
		uc.logger.Warnw("failed to detect upload type", "file", f.Name, "error", err)
		return nil, fmt.Sprintf("Failed to read file %q", f.Name)
	}
	if !storage.IsAllowed(detected, f.ContentType, uc.cfg.AllowedTypes) {
		return nil, fmt.Sprintf("File type %q is not allowed", detected)
	}

	storedName := fmt.Sprintf("ticket_%d_%s%s", ticketID, uuid.NewString(), storage.Extension(f.Name, detected))
	saved, err := uc.files.Save(storedName, r, uc.cfg.MaxSize)
	if stderrors.Is(err, storage.ErrTooLarge) {
		return nil, tooLarge
	}
	if err != nil {
		uc.logger.Errorw("failed to save upload", "file", f.Name, "error", err)
		return nil, fmt.Sprintf("Failed to save file %q", f.Name)
	}

	a, err := ticket.NewAttachment(ticketID, uploaderID, f.Name, saved.Name, detected, saved.Size, saved.Path, saved.SHA256)
	if err == nil {
		err = uc.attachmentRepo.Create(ctx, a)
	}
	if err != nil {
		uc.logger.Errorw("failed to record attachment", "file", f.Name, "error", err)
		if rmErr := uc.files.Remove(saved.Name); rmErr != nil {
			uc.logger.Warnw("failed to remove orphaned upload", "file", saved.Name, "error", rmErr)
		}
		return nil, fmt.Sprintf("Failed to save file info for %q", f.Name)
	}

	if stored, err := uc.attachmentRepo.GetByID(ctx, a.ID()); err == nil {
		a = stored
	}
	return a, ""
}

func (uc *AttachmentUseCases) List(ctx context.Context, actor *access.Actor, ticketID uint) ([]*dto.AttachmentResponse, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, ticketID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Decide(actor, access.AttachmentRead, access.AttachmentResource(t, nil)).Err(); err != nil {
		return nil, err
	}
	attachments, err := uc.attachmentRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return dto.ToAttachmentResponses(attachments), nil
}

func (uc *AttachmentUseCases) Download(ctx context.Context, actor *access.Actor, ticketID, attachmentID uint) (*Download, error) {
	t, a, err := uc.load(ctx, ticketID, attachmentID)
	if err != nil {
		return nil, err
	}
	if err := uc.policy.Decide(actor, access.AttachmentRead, access.AttachmentResource(t, a)).Err(); err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.NewNotFoundError("Attachment not found")
	}

	f, err := uc.files.Open(a.StoredName())
	if err != nil {
		uc.logger.Warnw("attachment file missing", "attachment_id", a.ID(), "file", a.StoredName(), "error", err)
		return nil, errors.NewNotFoundError("File not found on server")
	}
	return &Download{Attachment: dto.ToAttachmentResponse(a), File: f}, nil
}

func (uc *AttachmentUseCases) Delete(ctx context.Context, actor *access.Actor, ticketID, attachmentID uint) error {
	t, a, err := uc.load(ctx, ticketID, attachmentID)
	if err != nil {
		return err
	}
	if err := uc.policy.Decide(actor, access.AttachmentDelete, access.AttachmentResource(t, a)).Err(); err != nil {
		return err
	}

	if err := uc.attachmentRepo.Delete(ctx, a.ID()); err != nil {
		uc.logger.Errorw("failed to delete attachment", "attachment_id", a.ID(), "error", err)
		return err
	}
	if err := uc.files.Remove(a.StoredName()); err != nil {
		uc.logger.Warnw("failed to remove attachment file", "file", a.StoredName(), "error", err)
	}

	uc.logger.Infow("attachment deleted", "ticket_id", ticketID, "attachment_id", a.ID(), "user_id", actor.ID)
	return nil
}

func (uc *AttachmentUseCases) StorageStats(ctx context.Context, actor *access.Actor) (*dto.StorageStatsResponse, error) {
	if err := uc.policy.Decide(actor, access.StorageStats, access.Resource{}).Err(); err != nil {
		return nil, err
	}
	stats, err := uc.attachmentRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToStorageStatsResponse(stats), nil
}

func (uc *AttachmentUseCases) load(ctx context.Context, ticketID, attachmentID uint) (*ticket.Ticket, *ticket.Attachment, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, ticketID)
	if err != nil {
		return nil, nil, err
	}
	a, err := loadAttachment(ctx, uc.attachmentRepo, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	return t, a, nil
}
