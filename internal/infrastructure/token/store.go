// Package token issues and validates opaque bearer tokens.
package token

import (
	"context"
	"time"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 24 * time.Hour

// Record is the persisted value for one token. Times are unix seconds.
type Record struct {
	UserID    uint  `json:"user_id"`
	CreatedAt int64 `json:"created_at"`
	ExpiresAt int64 `json:"expires_at"`
}

func (r Record) expired(now time.Time) bool {
	return r.ExpiresAt < now.Unix()
}

// Store is the token issue/validate/revoke trio.
type Store interface {
	Issue(ctx context.Context, userID uint) (string, error)
	// Validate returns the owner of token. ok is false for unknown or
	// expired tokens; expired ones are evicted on the way.
	Validate(ctx context.Context, token string) (userID uint, ok bool, err error)
	// Revoke is idempotent.
	Revoke(ctx context.Context, token string) error
	// RevokeUser drops every token belonging to userID.
	RevokeUser(ctx context.Context, userID uint) error
	// CleanExpired evicts every expired token and reports how many went.
	CleanExpired(ctx context.Context) (int, error)
}

type Option func(*options)

type options struct {
	ttl       time.Duration
	now       func() time.Time
	generator Generator
}

func defaultOptions() options {
	return options{ttl: DefaultTTL, now: time.Now, generator: NewGenerator()}
}

func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithGenerator(g Generator) Option {
	return func(o *options) { o.generator = g }
}
