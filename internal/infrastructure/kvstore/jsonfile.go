package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// JSONFile keeps the whole map as a single JSON object on disk. Every
// mutation rewrites the file through a temp file and rename, so readers
// never see a partial write. An in-process mutex plus an advisory lock on
// "<path>.lock" serialize writers across goroutines and processes.
type JSONFile[V any] struct {
	path string
	mu   sync.Mutex
}

func NewJSONFile[V any](path string) (*JSONFile[V], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &JSONFile[V]{path: path}, nil
}

func (f *JSONFile[V]) Path() string {
	return f.path
}

func (f *JSONFile[V]) Update(fn func(map[string]V) (bool, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	unlock, err := lockFile(f.path + ".lock")
	if err != nil {
		return err
	}
	defer unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	changed, err := fn(data)
	if err != nil || !changed {
		return err
	}
	return f.write(data)
}

func (f *JSONFile[V]) View(fn func(map[string]V) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	return fn(data)
}

// read treats a missing or empty file as an empty map.
func (f *JSONFile[V]) read() (map[string]V, error) {
	data := make(map[string]V)
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(raw) == 0) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("corrupt store %s: %w", f.path, err)
	}
	return data, nil
}

func (f *JSONFile[V]) write(data map[string]V) error {
	raw, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}
