package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/shared/logger"
)

func newMemStorage(t *testing.T) (*LocalStorage, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s, err := NewStorageOnFs(fs, "uploads", logger.NewNopLogger())
	require.NoError(t, err)
	return s, fs
}

func TestLocalStorage_SaveOpenRemove(t *testing.T) {
	s, fs := newMemStorage(t)

	saved, err := s.Save("ticket_1_a.txt", strings.NewReader("hello"), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), saved.Size)
	assert.Equal(t, "uploads/ticket_1_a.txt", saved.Path)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", saved.SHA256)

	exists, err := afero.Exists(fs, "uploads/ticket_1_a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	f, err := s.Open("ticket_1_a.txt")
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "hello", string(body))

	require.NoError(t, s.Remove("ticket_1_a.txt"))
	require.NoError(t, s.Remove("ticket_1_a.txt"))
}

func TestLocalStorage_TooLarge(t *testing.T) {
	s, fs := newMemStorage(t)

	_, err := s.Save("big.bin", bytes.NewReader(make([]byte, 11)), 10)
	assert.ErrorIs(t, err, ErrTooLarge)

	exists, _ := afero.Exists(fs, "uploads/big.bin")
	assert.False(t, exists)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, _ := newMemStorage(t)

	for _, name := range []string{"../etc/passwd", "a/b.txt", ".hidden", ""} {
		_, err := s.Save(name, strings.NewReader("x"), 10)
		assert.Error(t, err, name)
	}
}

func TestDetectMIME(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	r := bytes.NewReader(png)

	detected, err := DetectMIME(r)
	require.NoError(t, err)
	assert.Equal(t, "image/png", detected)

	pos, _ := r.Seek(0, io.SeekCurrent)
	assert.Zero(t, pos)

	detected, err = DetectMIME(strings.NewReader("just some text"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)
}

func TestIsAllowed(t *testing.T) {
	allowed := []string{"image/png", "text/plain", "application/pdf"}

	assert.True(t, IsAllowed("image/png", "image/png", allowed))
	assert.True(t, IsAllowed("application/zip", "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		[]string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}))
	assert.False(t, IsAllowed("application/octet-stream", "application/pdf", allowed))
	assert.True(t, IsAllowed("text/plain", "application/octet-stream", allowed))
	assert.False(t, IsAllowed("application/x-elf", "image/png", allowed))
	assert.False(t, IsAllowed("text/html", "text/html", allowed))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".png", Extension("shot.jpeg", "image/png"))
	assert.Equal(t, ".txt", Extension("notes", "text/plain"))
	assert.Equal(t, ".pdf", Extension("doc.pdf", "application/pdf"))
}
