package usecases

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/application/testutil"
	"helpdesk/internal/domain/access"
	"helpdesk/internal/domain/department"
	"helpdesk/internal/domain/ticket"
	"helpdesk/internal/domain/user"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/infrastructure/ratelimit"
	"helpdesk/internal/infrastructure/storage"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/services/markdown"
)

type fixture struct {
	store    *testutil.Store
	policy   *access.Policy
	notifier *testutil.MockNotifier
	limiter  *testutil.MockLimiter
	renderer markdown.MarkdownService
	fs       afero.Fs
	files    *storage.LocalStorage

	admin    *user.User
	agent    *user.User
	owner    *user.User
	stranger *user.User
	dept     *department.Department
	ticket   *ticket.Ticket
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	fs := afero.NewMemMapFs()
	files, err := storage.NewStorageOnFs(fs, "uploads", logger.NewNopLogger())
	require.NoError(t, err)

	f := &fixture{
		store:    store,
		policy:   access.NewPolicy(access.StaticMatrix()),
		notifier: &testutil.MockNotifier{},
		limiter:  &testutil.MockLimiter{},
		renderer: markdown.NewMarkdownService(),
		fs:       fs,
		files:    files,
		admin:    store.AddUser("Admin User", "admin@example.com", vo.RoleAdmin),
		agent:    store.AddUser("John Agent", "john.agent@example.com", vo.RoleAgent),
		owner:    store.AddUser("Customer One", "customer1@example.com", vo.RoleUser),
		stranger: store.AddUser("Customer Two", "customer2@example.com", vo.RoleUser),
		dept:     store.AddDepartment("Technical Support"),
	}
	f.ticket = store.AddTicket("Login issues with mobile app", f.owner.ID(), f.dept.ID())
	return f
}

var uploadConfig = UploadConfig{
	MaxSize:      1 << 10,
	AllowedTypes: []string{"image/png", "application/pdf", "text/plain"},
	Rule:         ratelimit.Rule{Max: 5, Window: time.Hour},
}

func (f *fixture) attachments() *AttachmentUseCases {
	return NewAttachmentUseCases(f.store.Tickets(), f.store.Attachments(), f.files, f.limiter, f.policy, uploadConfig, logger.NewNopLogger())
}

func actorOf(u *user.User) *access.Actor {
	return &access.Actor{ID: u.ID(), Role: u.Role()}
}

func strPtr(s string) *string { return &s }
func uintPtr(n uint) *uint    { return &n }

type readSeekNopCloser struct{ *bytes.Reader }

func (readSeekNopCloser) Close() error { return nil }

func uploadOf(name, contentType string, data []byte) UploadFile {
	return UploadFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadSeekCloser, error) {
			return readSeekNopCloser{bytes.NewReader(data)}, nil
		},
	}
}
