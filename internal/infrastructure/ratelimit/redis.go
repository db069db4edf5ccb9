package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter keeps one sorted set per key, scored by unix seconds.
// It lets several server processes share counters.
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, now: time.Now}
}

func (l *RedisRateLimiter) getKey(identifier, action string) string {
	return "ratelimit:" + Key(identifier, action)
}

// checkAndRecordScript prunes, counts and conditionally records in one step,
// so concurrent callers sharing a key never admit more than the rule allows.
// It returns the in-window count, the oldest in-window score and whether
// the attempt fit before it was recorded.
var checkAndRecordScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window_start = tonumber(ARGV[2])
local limit = tonumber(ARGV[4])
local record = ARGV[5] == "1"

redis.call("ZREMRANGEBYSCORE", key, "-inf", "(" .. ARGV[3])
local count = redis.call("ZCOUNT", key, window_start, "+inf")
local allowed = 0
if count < limit then
	allowed = 1
end
if record and allowed == 1 then
	redis.call("ZADD", key, now, ARGV[6])
	redis.call("ZREMRANGEBYRANK", key, 0, -tonumber(ARGV[7]) - 1)
	redis.call("EXPIRE", key, tonumber(ARGV[8]))
	count = count + 1
end

local oldest = 0
local first = redis.call("ZRANGEBYSCORE", key, window_start, "+inf", "WITHSCORES", "LIMIT", 0, 1)
if #first > 0 then
	oldest = tonumber(first[2])
end
return {count, oldest, allowed}
`)

func (l *RedisRateLimiter) CheckAndRecord(ctx context.Context, identifier, action string, rule Rule, record bool) (Result, error) {
	now := l.now().Unix()
	window := int64(rule.Window / time.Second)
	recordArg := "0"
	if record {
		recordArg = "1"
	}

	vals, err := checkAndRecordScript.Run(ctx, l.client, []string{l.getKey(identifier, action)},
		now,
		now-window,
		now-int64(retention/time.Second),
		rule.Max,
		recordArg,
		uuid.NewString(),
		MaxEntriesPerKey,
		int64(retention/time.Second),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("unexpected rate limit script reply: %v", vals)
	}

	count, oldest := int(vals[0]), vals[1]
	res := Result{
		Allowed:   vals[2] == 1,
		Limit:     rule.Max,
		Remaining: max(rule.Max-count, 0),
	}
	if count > 0 {
		res.ResetAt = time.Unix(oldest+window, 0)
	}
	return res, nil
}

func (l *RedisRateLimiter) Record(ctx context.Context, identifier, action string) error {
	redisKey := l.getKey(identifier, action)
	now := l.now()

	pipe := l.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.Unix()), Member: uuid.NewString()})
	pipe.ZRemRangeByRank(ctx, redisKey, 0, -MaxEntriesPerKey-1)
	pipe.Expire(ctx, redisKey, retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

func (l *RedisRateLimiter) Remaining(ctx context.Context, identifier, action string, rule Rule) (Result, error) {
	redisKey := l.getKey(identifier, action)
	now := l.now().Unix()
	windowStart := now - int64(rule.Window/time.Second)

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+strconv.FormatInt(now-int64(retention/time.Second), 10))
	inWindow := pipe.ZRangeByScoreWithScores(ctx, redisKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(windowStart, 10),
		Max: "+inf",
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	stamps := make([]int64, 0, len(inWindow.Val()))
	for _, z := range inWindow.Val() {
		stamps = append(stamps, int64(z.Score))
	}
	return evaluate(stamps, now, rule), nil
}

func (l *RedisRateLimiter) Clear(ctx context.Context, identifier, action string) error {
	if err := l.client.Del(ctx, l.getKey(identifier, action)).Err(); err != nil {
		return fmt.Errorf("failed to clear rate limit: %w", err)
	}
	return nil
}

// Cleanup is a no-op: keys carry a TTL and stale members are trimmed on read.
func (l *RedisRateLimiter) Cleanup(context.Context) (int, error) {
	return 0, nil
}
