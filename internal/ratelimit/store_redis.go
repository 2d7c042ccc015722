package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore keeps one sorted set of request timestamps per key, so the
// window is shared by every instance.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Allow trims expired members, counts the rest and records this request.
// A rejected request is removed again so it does not extend the window.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := s.now()
	redisKey := redisKeyPrefix + key
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()

	var card *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(now.Add(-window).UnixMicro(), 10))
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMicro()), Member: member})
		card = pipe.ZCard(ctx, redisKey)
		oldest = pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
		pipe.PExpire(ctx, redisKey, window)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check: %w", err)
	}

	count := int(card.Val())
	res := Result{Limit: limit, ResetAt: now.Add(window)}
	if zs := oldest.Val(); len(zs) > 0 {
		res.ResetAt = time.UnixMicro(int64(zs[0].Score)).Add(window)
	}
	if count > limit {
		if err := s.client.ZRem(ctx, redisKey, member).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit rollback: %w", err)
		}
		return res, nil
	}
	res.Allowed = true
	res.Remaining = limit - count
	return res, nil
}
