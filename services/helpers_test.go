package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/avvalues/trade-hub/model"
	"github.com/avvalues/trade-hub/services/repositories"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "trade-hub.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repositories.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingPublisher struct {
	mu     sync.Mutex
	trades []*model.Trade
	err    error
}

func (p *recordingPublisher) PublishTradeAccepted(ctx context.Context, trade *model.Trade) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trades = append(p.trades, trade)
	return p.err
}

func (p *recordingPublisher) Published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.trades)
}

type tradeFixture struct {
	db         *gorm.DB
	clock      *testClock
	svc        *TradeService
	moderation *ModerationService
	publisher  *recordingPublisher
}

func newTradeFixture(t *testing.T, limits TradeLimits) *tradeFixture {
	t.Helper()

	db := newTestDB(t)
	clock := newTestClock(epoch)
	publisher := &recordingPublisher{}
	moderation := NewModerationService(repositories.NewBannedWordRepository(db))
	limiter := NewRateLimitService(repositories.NewRateBucketRepository(db), limits)

	svc := NewTradeService(repositories.NewTradeRepository(db), limiter, moderation, publisher, limits)
	svc.buckets = repositories.NewRateBucketRepository(db)
	svc.now = clock.Now

	return &tradeFixture{
		db:         db,
		clock:      clock,
		svc:        svc,
		moderation: moderation,
		publisher:  publisher,
	}
}
