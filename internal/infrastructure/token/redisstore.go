package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"helpdesk/internal/shared/logger"
)

const (
	redisTokenPrefix = "helpdesk:token:"
	redisUserPrefix  = "helpdesk:user_tokens:"
)

// RedisStore shares tokens between server instances. Keys carry the token
// hash and a TTL, so redis does the expiry sweeping.
type RedisStore struct {
	client *redis.Client
	opts   options
	logger logger.Interface
}

func NewRedisStore(client *redis.Client, log logger.Interface, opts ...Option) *RedisStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &RedisStore{client: client, opts: o, logger: log}
}

func (s *RedisStore) key(tok string) string {
	return redisTokenPrefix + s.opts.generator.Hash(tok)
}

func userKey(userID uint) string {
	return redisUserPrefix + strconv.FormatUint(uint64(userID), 10)
}

func (s *RedisStore) Issue(ctx context.Context, userID uint) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("user ID is required")
	}
	tok, err := s.opts.generator.Generate()
	if err != nil {
		return "", err
	}

	now := s.opts.now()
	raw, err := json.Marshal(Record{
		UserID:    userID,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.opts.ttl).Unix(),
	})
	if err != nil {
		return "", err
	}

	key := s.key(tok)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, raw, s.opts.ttl)
	pipe.SAdd(ctx, userKey(userID), key)
	pipe.Expire(ctx, userKey(userID), s.opts.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}
	return tok, nil
}

func (s *RedisStore) Validate(ctx context.Context, tok string) (uint, bool, error) {
	if tok == "" {
		return 0, false, nil
	}
	key := s.key(tok)
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to validate token: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return 0, false, fmt.Errorf("corrupt token record: %w", err)
	}
	if rec.expired(s.opts.now()) {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			s.logger.Warnw("failed to evict expired token", "error", err)
		}
		return 0, false, nil
	}
	return rec.UserID, true, nil
}

func (s *RedisStore) Revoke(ctx context.Context, tok string) error {
	if err := s.client.Del(ctx, s.key(tok)).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *RedisStore) RevokeUser(ctx context.Context, userID uint) error {
	keys, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list user tokens: %w", err)
	}
	keys = append(keys, userKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// CleanExpired is a no-op: redis expires keys on its own.
func (s *RedisStore) CleanExpired(context.Context) (int, error) {
	return 0, nil
}
