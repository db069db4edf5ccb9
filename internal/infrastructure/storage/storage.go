// Package storage keeps attachment blobs on an afero filesystem.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"helpdesk/internal/shared/logger"
)

var ErrTooLarge = errors.New("file exceeds the size limit")

// SavedFile describes a blob after it has been written.
type SavedFile struct {
	Name   string
	Path   string
	Size   int64
	SHA256 string
}

type FileStorage interface {
	// Save writes at most maxSize bytes from r under name. Oversized input
	// is removed again and reported as ErrTooLarge.
	Save(name string, r io.Reader, maxSize int64) (*SavedFile, error)
	Open(name string) (afero.File, error)
	Remove(name string) error
}

// LocalStorage roots every name under dir. Names may not escape it.
type LocalStorage struct {
	fs     afero.Fs
	dir    string
	logger logger.Interface
}

func NewLocalStorage(dir string, log logger.Interface) (*LocalStorage, error) {
	return NewStorageOnFs(afero.NewOsFs(), dir, log)
}

// NewStorageOnFs is used with afero.NewMemMapFs in tests.
func NewStorageOnFs(base afero.Fs, dir string, log logger.Interface) (*LocalStorage, error) {
	if err := base.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{
		fs:     afero.NewBasePathFs(base, dir),
		dir:    dir,
		logger: log,
	}, nil
}

func (s *LocalStorage) Save(name string, r io.Reader, maxSize int64) (*SavedFile, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	hash := sha256.New()
	n, copyErr := io.Copy(io.MultiWriter(f, hash), io.LimitReader(r, maxSize+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		s.discard(name)
		return nil, fmt.Errorf("failed to write file: %w", copyErr)
	case closeErr != nil:
		s.discard(name)
		return nil, fmt.Errorf("failed to write file: %w", closeErr)
	case n > maxSize:
		s.discard(name)
		return nil, ErrTooLarge
	}

	return &SavedFile{
		Name:   name,
		Path:   filepath.ToSlash(filepath.Join(s.dir, name)),
		Size:   n,
		SHA256: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

func (s *LocalStorage) Open(name string) (afero.File, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Remove treats a missing file as already removed.
func (s *LocalStorage) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

func (s *LocalStorage) discard(name string) {
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warnw("failed to remove partial upload", "name", name, "error", err)
	}
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}
