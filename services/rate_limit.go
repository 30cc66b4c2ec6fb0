package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/avvalues/trade-hub/dto"
	"github.com/avvalues/trade-hub/model"
	"github.com/avvalues/trade-hub/services/repositories"
	"github.com/avvalues/trade-hub/shared"
	log "github.com/sirupsen/logrus"
)

const (
	RATE_LIMIT_SVC = "rate_limit_svc"

	RateLimitBackendDatabase = "database"
	RateLimitBackendRedis    = "redis"
)

// BucketStore atomically bumps a time-slice counter and returns its new value.
type BucketStore interface {
	Increment(ctx context.Context, key model.BucketKey, now time.Time) (int64, error)
}

// RateLimitService is the flood guard in front of the trade board. It costs two
// counter operations per request and never scans history.
type RateLimitService struct {
	appContext.DefaultService

	store   BucketStore
	limits  TradeLimits
	backend string
}

func NewRateLimitService(store BucketStore, limits TradeLimits) *RateLimitService {
	return &RateLimitService{store: store, limits: limits}
}

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.limits = LoadTradeLimits()
	svc.backend = shared.GetEnvString("RATE_LIMIT_BACKEND", RateLimitBackendDatabase)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	switch svc.backend {
	case RateLimitBackendRedis:
		redisSvc := svc.Service(REDIS_SVC).(*RedisService)
		svc.store = NewRedisBucketStore(redisSvc.GetClient(), svc.limits.BucketRetention)
	case RateLimitBackendDatabase:
		dbSvc := svc.Service(DATABASE_SVC).(*DatabaseService)
		svc.store = repositories.NewRateBucketRepository(dbSvc.Db())
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", svc.backend)
	}

	log.WithFields(log.Fields{
		"backend":    svc.backend,
		"per_minute": svc.limits.PerMinute,
		"per_hour":   svc.limits.PerHour,
	}).Info("Rate limiter ready")
	return nil
}

func (svc *RateLimitService) Limits() TradeLimits {
	return svc.limits
}

// CheckAndRecord counts the request against the fingerprint's current minute and hour
// buckets, then decides. Both buckets are bumped even when the request is rejected.
func (svc *RateLimitService) CheckAndRecord(ctx context.Context, fp model.Fingerprint, now time.Time) (*dto.RateLimitInfo, error) {
	identity := fp.String()
	minuteKey := model.NewBucketKey(identity, model.GranularityMinute, now)
	hourKey := model.NewBucketKey(identity, model.GranularityHour, now)

	minuteHits, err := svc.store.Increment(ctx, minuteKey, now)
	if err != nil {
		return nil, fmt.Errorf("increment minute bucket: %w", err)
	}
	hourHits, err := svc.store.Increment(ctx, hourKey, now)
	if err != nil {
		return nil, fmt.Errorf("increment hour bucket: %w", err)
	}

	info := &dto.RateLimitInfo{
		Allowed:     true,
		MinuteCount: minuteHits,
		HourCount:   hourHits,
	}

	switch {
	case minuteHits > svc.limits.PerMinute:
		info.Allowed = false
		info.RetryKind = model.GranularityMinute
		info.RetryAfter = minuteKey.End().Sub(now)
	case hourHits > svc.limits.PerHour:
		info.Allowed = false
		info.RetryKind = model.GranularityHour
		info.RetryAfter = hourKey.End().Sub(now)
	}

	if !info.Allowed {
		log.WithFields(log.Fields{
			"ip":           fp.IP,
			"retry_kind":   info.RetryKind,
			"minute_count": minuteHits,
			"hour_count":   hourHits,
		}).Warn("Trade submission throttled")
	}
	return info, nil
}

// RejectionMessage is the client-facing text for a throttled request.
func (svc *RateLimitService) RejectionMessage(info *dto.RateLimitInfo) string {
	if info.RetryKind == model.GranularityHour {
		return fmt.Sprintf("Too many trade posts. Limit is %d per hour.", svc.limits.PerHour)
	}
	return fmt.Sprintf("Too many trade posts. Limit is %d per minute.", svc.limits.PerMinute)
}
