package ratelimit

import (
	"context"
	"fmt"
	"slices"
	"time"

	"helpdesk/internal/infrastructure/kvstore"
	"helpdesk/internal/shared/logger"
)

// FileRateLimiter keeps {"<action>_<identifier>": [unix seconds...]} in a
// kvstore, normally a JSON file.
type FileRateLimiter struct {
	kv     kvstore.Store[[]int64]
	now    func() time.Time
	logger logger.Interface
}

type Option func(*FileRateLimiter)

func WithClock(now func() time.Time) Option {
	return func(l *FileRateLimiter) { l.now = now }
}

func NewFileRateLimiter(kv kvstore.Store[[]int64], log logger.Interface, opts ...Option) *FileRateLimiter {
	l := &FileRateLimiter{kv: kv, now: time.Now, logger: log}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *FileRateLimiter) CheckAndRecord(_ context.Context, identifier, action string, rule Rule, record bool) (Result, error) {
	key := Key(identifier, action)
	now := l.now().Unix()

	var res Result
	err := l.kv.Update(func(data map[string][]int64) (bool, error) {
		changed := prune(data, now)

		res = evaluate(data[key], now, rule)
		if !res.Allowed || !record {
			return changed, nil
		}

		data[key] = appendCapped(data[key], now)
		res = evaluate(data[key], now, rule)
		res.Allowed = true
		return true, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to check rate limit: %w", err)
	}
	return res, nil
}

func (l *FileRateLimiter) Record(_ context.Context, identifier, action string) error {
	key := Key(identifier, action)
	now := l.now().Unix()
	return l.kv.Update(func(data map[string][]int64) (bool, error) {
		data[key] = appendCapped(data[key], now)
		return true, nil
	})
}

func (l *FileRateLimiter) Remaining(_ context.Context, identifier, action string, rule Rule) (Result, error) {
	key := Key(identifier, action)
	now := l.now().Unix()

	var res Result
	err := l.kv.View(func(data map[string][]int64) error {
		res = evaluate(data[key], now, rule)
		return nil
	})
	return res, err
}

func (l *FileRateLimiter) Clear(_ context.Context, identifier, action string) error {
	key := Key(identifier, action)
	return l.kv.Update(func(data map[string][]int64) (bool, error) {
		if _, ok := data[key]; !ok {
			return false, nil
		}
		delete(data, key)
		return true, nil
	})
}

func (l *FileRateLimiter) Cleanup(_ context.Context) (int, error) {
	now := l.now().Unix()
	before, after := 0, 0
	err := l.kv.Update(func(data map[string][]int64) (bool, error) {
		before = len(data)
		changed := prune(data, now)
		after = len(data)
		return changed, nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clean rate limit data: %w", err)
	}
	if removed := before - after; removed > 0 {
		l.logger.Debugw("stale rate limit keys removed", "count", removed)
	}
	return before - after, nil
}

// prune drops timestamps older than retention and then empty keys.
func prune(data map[string][]int64, now int64) bool {
	cutoff := now - int64(retention/time.Second)
	changed := false
	for key, stamps := range data {
		kept := slices.DeleteFunc(slices.Clone(stamps), func(ts int64) bool { return ts < cutoff })
		switch {
		case len(kept) == 0:
			delete(data, key)
			changed = true
		case len(kept) != len(stamps):
			data[key] = kept
			changed = true
		}
	}
	return changed
}

func appendCapped(stamps []int64, now int64) []int64 {
	stamps = append(stamps, now)
	if len(stamps) > MaxEntriesPerKey {
		stamps = stamps[len(stamps)-MaxEntriesPerKey:]
	}
	return stamps
}
