// Package ratelimit counts attempts per (identifier, action) in a sliding window.
package ratelimit

import (
	"context"
	"time"

	"helpdesk/internal/shared/constants"
)

const (
	// MaxEntriesPerKey caps how many timestamps are kept for one key, which
	// makes it the largest Rule.Max either backend can enforce.
	MaxEntriesPerKey = constants.RateLimitMaxEntriesPerKey
	// retention is how long any timestamp is kept regardless of the rule.
	retention = 24 * time.Hour
)

type Rule struct {
	Max    int
	Window time.Duration
}

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the oldest in-window attempt leaves the window. Zero
	// when nothing is in the window.
	ResetAt time.Time
}

type RateLimiter interface {
	// CheckAndRecord reports whether another attempt fits the rule. When
	// record is true and the attempt fits, it is recorded.
	CheckAndRecord(ctx context.Context, identifier, action string, rule Rule, record bool) (Result, error)
	// Record appends an attempt unconditionally.
	Record(ctx context.Context, identifier, action string) error
	// Remaining inspects the window without recording.
	Remaining(ctx context.Context, identifier, action string, rule Rule) (Result, error)
	Clear(ctx context.Context, identifier, action string) error
	// Cleanup drops timestamps past retention and reports removed keys.
	Cleanup(ctx context.Context) (int, error)
}

func Key(identifier, action string) string {
	return action + "_" + identifier
}

// evaluate counts the in-window attempts of stamps, which must be sorted
// ascending. An attempt is in the window when now-ts <= window.
func evaluate(stamps []int64, now int64, rule Rule) Result {
	window := int64(rule.Window / time.Second)
	count := 0
	var oldest int64
	for _, ts := range stamps {
		if now-ts <= window {
			if count == 0 {
				oldest = ts
			}
			count++
		}
	}

	res := Result{Limit: rule.Max, Allowed: count < rule.Max}
	res.Remaining = max(rule.Max-count, 0)
	if count > 0 {
		res.ResetAt = time.Unix(oldest+window, 0)
	}
	return res
}
