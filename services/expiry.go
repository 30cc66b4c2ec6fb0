package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/avvalues/trade-hub/services/repositories"
	"github.com/avvalues/trade-hub/shared"
	log "github.com/sirupsen/logrus"
)

const EXPIRY_SVC = "expiry_svc"

type TradeSweeper interface {
	DeleteTradesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type BucketSweeper interface {
	DeleteBucketsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ExpiryService removes trades and rate buckets past their retention. Relational
// stores have no TTL so this runs on a ticker; reads also filter by retention.
type ExpiryService struct {
	appContext.DefaultService

	trades  TradeSweeper
	buckets BucketSweeper

	limits   TradeLimits
	interval time.Duration
	now      func() time.Time
	closed   chan struct{}
}

func NewExpiryService(trades TradeSweeper, buckets BucketSweeper, limits TradeLimits) *ExpiryService {
	return &ExpiryService{trades: trades, buckets: buckets, limits: limits, now: time.Now}
}

func (svc ExpiryService) Id() string {
	return EXPIRY_SVC
}

func (svc *ExpiryService) Configure(ctx *appContext.Context) error {
	svc.limits = LoadTradeLimits()
	svc.interval = shared.GetEnvDuration("SWEEP_INTERVAL", time.Hour)
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *ExpiryService) Start() error {
	db := svc.Service(DATABASE_SVC).(*DatabaseService).Db()
	svc.trades = repositories.NewTradeRepository(db)
	// Redis buckets carry their own TTL.
	if shared.GetEnvString("RATE_LIMIT_BACKEND", RateLimitBackendDatabase) == RateLimitBackendDatabase {
		svc.buckets = repositories.NewRateBucketRepository(db)
	}

	svc.closed = make(chan struct{})
	go svc.run()
	return nil
}

func (svc *ExpiryService) Shutdown() {
	if svc.closed != nil {
		close(svc.closed)
	}
}

func (svc *ExpiryService) run() {
	ticker := time.NewTicker(svc.interval)
	defer ticker.Stop()

	svc.sweepOnce()
	for {
		select {
		case <-ticker.C:
			svc.sweepOnce()
		case <-svc.closed:
			log.Info("Expiry sweeper stopped")
			return
		}
	}
}

func (svc *ExpiryService) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, _, err := svc.Sweep(ctx); err != nil {
		log.WithError(err).Error("Expiry sweep failed")
	}
}

// Sweep deletes everything older than its retention and reports how much went.
func (svc *ExpiryService) Sweep(ctx context.Context) (trades int64, buckets int64, err error) {
	now := svc.now().UTC()

	trades, err = svc.trades.DeleteTradesBefore(ctx, now.Add(-svc.limits.TradeRetention))
	if err != nil {
		return 0, 0, handleStoreError(err)
	}
	recordExpiredRecords("trade", trades)

	if svc.buckets != nil {
		buckets, err = svc.buckets.DeleteBucketsBefore(ctx, now.Add(-svc.limits.BucketRetention))
		if err != nil {
			return trades, 0, handleStoreError(err)
		}
		recordExpiredRecords("rate_bucket", buckets)
	}

	if trades > 0 || buckets > 0 {
		log.WithFields(log.Fields{"trades": trades, "buckets": buckets}).Info("Expired records removed")
	}
	return trades, buckets, nil
}
