package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/avvalues/trade-hub/model"
	"github.com/avvalues/trade-hub/shared"
	"github.com/redis/go-redis/v9"
)

// RedisService holds the client used by the redis rate-limit backend. It stays
// idle unless RATE_LIMIT_BACKEND=redis.
type RedisService struct {
	appContext.DefaultService
	redis *redis.Client
}

const (
	REDIS_SVC = "redis_svc"

	redisBucketPrefix = "trade-hub:rate:"
)

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	if shared.GetEnvString("RATE_LIMIT_BACKEND", RateLimitBackendDatabase) == RateLimitBackendRedis {
		svc.initRedisClient()
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := svc.redis.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

func (svc *RedisService) initRedisClient() {
	svc.redis = redis.NewClient(&redis.Options{
		Addr:     shared.GetEnvString("REDIS_ADDR", "localhost:6379"),
		Password: shared.GetEnvString("REDIS_PASSWORD", ""),
		DB:       shared.GetEnvInt("REDIS_DB", 0),
	})
}

func (svc *RedisService) GetClient() *redis.Client {
	return svc.redis
}

// RedisBucketStore keeps rate buckets as plain counters and lets Redis expire them.
type RedisBucketStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisBucketStore(client redis.Cmdable, ttl time.Duration) *RedisBucketStore {
	return &RedisBucketStore{client: client, ttl: ttl}
}

func (s *RedisBucketStore) Increment(ctx context.Context, key model.BucketKey, now time.Time) (int64, error) {
	redisKey := redisBucketPrefix + key.String()

	var incr *redis.IntCmd
	// EXPIRE NX runs on every hit so a key left without a TTL gets one on the next
	// request, while a live TTL is never pushed out.
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, s.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", redisKey, err)
	}
	return incr.Val(), nil
}
