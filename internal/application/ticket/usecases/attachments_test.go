package usecases

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
)

var (
	pngData = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	pdfData = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	elfData = append([]byte("\x7fELF\x02\x01\x01\x00"), make([]byte, 56)...)
)

func TestAttachmentUseCases_Upload_PartialFailure(t *testing.T) {
	f := newFixture(t)
	uc := f.attachments()

	resp, err := uc.Upload(context.Background(), UploadCommand{
		Actor:    actorOf(f.owner),
		TicketID: f.ticket.ID(),
		Files: []UploadFile{
			uploadOf("screenshot.png", "image/png", pngData),
			uploadOf("tool.exe", "application/octet-stream", elfData),
			uploadOf("huge.pdf", "application/pdf", bytes.Repeat([]byte("a"), 2<<10)),
			uploadOf("empty.txt", "text/plain", nil),
			uploadOf("report", "application/pdf", pdfData),
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Uploaded, 2)
	assert.Equal(t, 2, resp.UploadCount)
	require.Len(t, resp.Errors, 3)
	assert.Equal(t, "tool.exe", resp.Errors[0].File)
	assert.Contains(t, resp.Errors[0].Error, "is not allowed")
	assert.Contains(t, resp.Errors[1].Error, "exceeds maximum size")
	assert.Contains(t, resp.Errors[2].Error, "is empty")

	png := resp.Uploaded[0]
	assert.Equal(t, "screenshot.png", png.OriginalName)
	assert.Equal(t, "image/png", png.MimeType)
	assert.Equal(t, "Customer One", png.UploaderName)
	assert.Regexp(t, `^ticket_\d+_[0-9a-f-]{36}\.png$`, png.StoredName)
	assert.Len(t, png.Checksum, 64)

	pdf := resp.Uploaded[1]
	assert.Equal(t, "application/pdf", pdf.MimeType)
	assert.Regexp(t, `\.pdf$`, pdf.StoredName, "extension follows the detected type")

	assert.Equal(t, []string{ratelimit.Key(strconv.FormatUint(uint64(f.owner.ID()), 10), constants.ActionFileUpload)}, f.limiter.Recorded,
		"a batch counts as one attempt")
}

func TestAttachmentUseCases_Upload_AllFailed(t *testing.T) {
	f := newFixture(t)
	resp, err := f.attachments().Upload(context.Background(), UploadCommand{
		Actor:    actorOf(f.owner),
		TicketID: f.ticket.ID(),
		Files:    []UploadFile{uploadOf("tool.exe", "application/octet-stream", elfData)},
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Uploaded)
	assert.Len(t, resp.Errors, 1)
}

func TestAttachmentUseCases_Upload_MetadataFailureRemovesFile(t *testing.T) {
	f := newFixture(t)
	f.store.CreateAttachmentErr = errors.NewInternalError("database is gone")

	resp, err := f.attachments().Upload(context.Background(), UploadCommand{
		Actor:    actorOf(f.owner),
		TicketID: f.ticket.ID(),
		Files:    []UploadFile{uploadOf("report.pdf", "application/pdf", pdfData)},
	})

	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, `Failed to save file info for "report.pdf"`, resp.Errors[0].Error)

	entries, err := f.fs.Open("uploads")
	require.NoError(t, err)
	names, err := entries.Readdirnames(-1)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestAttachmentUseCases_Upload_Rejections(t *testing.T) {
	f := newFixture(t)
	uc := f.attachments()
	ctx := context.Background()
	files := []UploadFile{uploadOf("report.pdf", "application/pdf", pdfData)}

	_, err := uc.Upload(ctx, UploadCommand{Actor: actorOf(f.stranger), TicketID: f.ticket.ID(), Files: files})
	assert.True(t, errors.IsForbiddenError(err))

	_, err = uc.Upload(ctx, UploadCommand{Actor: actorOf(f.owner), TicketID: 999, Files: files})
	assert.True(t, errors.IsNotFoundError(err))

	_, err = uc.Upload(ctx, UploadCommand{Actor: actorOf(f.owner), TicketID: f.ticket.ID()})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Upload(ctx, UploadCommand{TicketID: f.ticket.ID(), Files: files})
	assert.True(t, errors.IsUnauthorizedError(err))

	resetAt := time.Now().Add(time.Hour)
	f.limiter.CheckAndRecordFunc = func(_ context.Context, _, _ string, rule ratelimit.Rule, _ bool) (ratelimit.Result, error) {
		return ratelimit.Result{Allowed: false, Limit: rule.Max, ResetAt: resetAt}, nil
	}
	_, err = uc.Upload(ctx, UploadCommand{Actor: actorOf(f.owner), TicketID: f.ticket.ID(), Files: files})
	require.True(t, errors.IsRateLimitError(err))
	assert.Equal(t, resetAt, errors.GetAppError(err).ResetAt)
}

func TestAttachmentUseCases_ListDownloadDelete(t *testing.T) {
	f := newFixture(t)
	uc := f.attachments()
	ctx := context.Background()
	other := f.store.AddTicket("Other", f.stranger.ID(), f.dept.ID())

	resp, err := uc.Upload(ctx, UploadCommand{
		Actor:    actorOf(f.agent),
		TicketID: f.ticket.ID(),
		Files:    []UploadFile{uploadOf("report.pdf", "application/pdf", pdfData)},
	})
	require.NoError(t, err)
	require.Len(t, resp.Uploaded, 1)
	id := resp.Uploaded[0].ID

	list, err := uc.List(ctx, actorOf(f.owner), f.ticket.ID())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.List(ctx, actorOf(f.stranger), f.ticket.ID())
	assert.True(t, errors.IsForbiddenError(err))

	dl, err := uc.Download(ctx, actorOf(f.owner), f.ticket.ID(), id)
	require.NoError(t, err)
	body, err := io.ReadAll(dl.File)
	require.NoError(t, err)
	require.NoError(t, dl.File.Close())
	assert.Equal(t, pdfData, body)
	assert.Equal(t, "report.pdf", dl.Attachment.OriginalName)

	_, err = uc.Download(ctx, actorOf(f.agent), other.ID(), id)
	assert.True(t, errors.IsNotFoundError(err), "attachment of another ticket")

	err = uc.Delete(ctx, actorOf(f.stranger), f.ticket.ID(), id)
	assert.True(t, errors.IsForbiddenError(err))

	require.NoError(t, uc.Delete(ctx, actorOf(f.owner), f.ticket.ID(), id), "ticket owner may delete")

	err = uc.Delete(ctx, actorOf(f.owner), f.ticket.ID(), id)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestAttachmentUseCases_Download_FileMissing(t *testing.T) {
	f := newFixture(t)
	uc := f.attachments()
	ctx := context.Background()

	resp, err := uc.Upload(ctx, UploadCommand{
		Actor:    actorOf(f.owner),
		TicketID: f.ticket.ID(),
		Files:    []UploadFile{uploadOf("shot.png", "image/png", pngData)},
	})
	require.NoError(t, err)
	require.NoError(t, f.files.Remove(resp.Uploaded[0].StoredName))

	_, err = uc.Download(ctx, actorOf(f.owner), f.ticket.ID(), resp.Uploaded[0].ID)
	require.True(t, errors.IsNotFoundError(err))
	assert.Equal(t, "File not found on server", errors.GetAppError(err).Message)
}

func TestAttachmentUseCases_StorageStats(t *testing.T) {
	f := newFixture(t)
	uc := f.attachments()
	ctx := context.Background()

	_, err := uc.Upload(ctx, UploadCommand{
		Actor:    actorOf(f.owner),
		TicketID: f.ticket.ID(),
		Files: []UploadFile{
			uploadOf("shot.png", "image/png", pngData),
			uploadOf("report.pdf", "application/pdf", pdfData),
		},
	})
	require.NoError(t, err)

	stats, err := uc.StorageStats(ctx, actorOf(f.admin))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalFiles)
	assert.Equal(t, int64(len(pngData)+len(pdfData)), stats.TotalSize)
	assert.Equal(t, stats.TotalSize/2, stats.AvgSize)

	_, err = uc.StorageStats(ctx, actorOf(f.agent))
	assert.True(t, errors.IsForbiddenError(err))
}
