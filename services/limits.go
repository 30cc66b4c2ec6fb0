package services

import (
	"time"

	"github.com/avvalues/trade-hub/shared"
)

// TradeLimits holds every tunable of the submission pipeline.
type TradeLimits struct {
	PerMinute       int64
	PerHour         int64
	WindowLimit     int
	Window          time.Duration
	TradeRetention  time.Duration
	BucketRetention time.Duration
	ListLimit       int
}

func DefaultTradeLimits() TradeLimits {
	return TradeLimits{
		PerMinute:       3,
		PerHour:         10,
		WindowLimit:     2,
		Window:          24 * time.Hour,
		TradeRetention:  7 * 24 * time.Hour,
		BucketRetention: 2 * 24 * time.Hour,
		ListLimit:       200,
	}
}

// LoadTradeLimits reads limits from the environment, falling back to the defaults.
func LoadTradeLimits() TradeLimits {
	def := DefaultTradeLimits()
	limits := TradeLimits{
		PerMinute:       int64(shared.GetEnvInt("RATE_LIMIT_PER_MINUTE", int(def.PerMinute))),
		PerHour:         int64(shared.GetEnvInt("RATE_LIMIT_PER_HOUR", int(def.PerHour))),
		WindowLimit:     shared.GetEnvInt("TRADE_WINDOW_LIMIT", def.WindowLimit),
		Window:          shared.GetEnvDuration("TRADE_WINDOW", def.Window),
		TradeRetention:  shared.GetEnvDuration("TRADE_RETENTION", def.TradeRetention),
		BucketRetention: shared.GetEnvDuration("RATE_BUCKET_RETENTION", def.BucketRetention),
		ListLimit:       shared.GetEnvInt("TRADE_LIST_LIMIT", def.ListLimit),
	}

	if limits.PerMinute <= 0 {
		limits.PerMinute = def.PerMinute
	}
	if limits.PerHour <= 0 {
		limits.PerHour = def.PerHour
	}
	if limits.WindowLimit <= 0 {
		limits.WindowLimit = def.WindowLimit
	}
	if limits.ListLimit <= 0 || limits.ListLimit > def.ListLimit {
		limits.ListLimit = def.ListLimit
	}
	return limits
}
