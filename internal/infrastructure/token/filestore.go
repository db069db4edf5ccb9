package token

import (
	"context"
	"fmt"

	"helpdesk/internal/infrastructure/kvstore"
	"helpdesk/internal/shared/logger"
)

// FileStore keeps tokens in a kvstore, normally a JSON file shaped
// {"<token>": {"user_id":1,"created_at":...,"expires_at":...}}.
type FileStore struct {
	kv     kvstore.Store[Record]
	opts   options
	logger logger.Interface
}

func NewFileStore(kv kvstore.Store[Record], log logger.Interface, opts ...Option) *FileStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FileStore{kv: kv, opts: o, logger: log}
}

func (s *FileStore) Issue(_ context.Context, userID uint) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("user ID is required")
	}
	tok, err := s.opts.generator.Generate()
	if err != nil {
		return "", err
	}

	now := s.opts.now()
	rec := Record{
		UserID:    userID,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.opts.ttl).Unix(),
	}
	err = s.kv.Update(func(data map[string]Record) (bool, error) {
		data[tok] = rec
		return true, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}
	return tok, nil
}

func (s *FileStore) Validate(_ context.Context, tok string) (uint, bool, error) {
	if tok == "" {
		return 0, false, nil
	}

	var (
		userID uint
		ok     bool
	)
	now := s.opts.now()
	err := s.kv.Update(func(data map[string]Record) (bool, error) {
		rec, found := data[tok]
		if !found {
			return false, nil
		}
		if rec.expired(now) {
			delete(data, tok)
			return true, nil
		}
		userID, ok = rec.UserID, true
		return false, nil
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to validate token: %w", err)
	}
	return userID, ok, nil
}

func (s *FileStore) Revoke(_ context.Context, tok string) error {
	return s.kv.Update(func(data map[string]Record) (bool, error) {
		if _, found := data[tok]; !found {
			return false, nil
		}
		delete(data, tok)
		return true, nil
	})
}

func (s *FileStore) RevokeUser(_ context.Context, userID uint) error {
	return s.kv.Update(func(data map[string]Record) (bool, error) {
		changed := false
		for tok, rec := range data {
			if rec.UserID == userID {
				delete(data, tok)
				changed = true
			}
		}
		return changed, nil
	})
}

func (s *FileStore) CleanExpired(_ context.Context) (int, error) {
	removed := 0
	now := s.opts.now()
	err := s.kv.Update(func(data map[string]Record) (bool, error) {
		for tok, rec := range data {
			if rec.expired(now) {
				delete(data, tok)
				removed++
			}
		}
		return removed > 0, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clean expired tokens: %w", err)
	}
	if removed > 0 {
		s.logger.Debugw("expired tokens removed", "count", removed)
	}
	return removed, nil
}
