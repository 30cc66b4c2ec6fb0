package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avvalues/trade-hub/dto"
	"github.com/avvalues/trade-hub/model"
)

type TradeHistory interface {
	FindByFingerprintSince(ctx context.Context, fingerprint string, since time.Time) ([]model.Trade, error)
}

// WindowQuota allows at most limit accepted trades per window, anchored at the
// oldest trade still inside it. Only that oldest trade decides when a slot frees up.
type WindowQuota struct {
	trades TradeHistory
	limit  int
	window time.Duration
}

func NewWindowQuota(trades TradeHistory, limit int, window time.Duration) *WindowQuota {
	return &WindowQuota{trades: trades, limit: limit, window: window}
}

func (q *WindowQuota) Check(ctx context.Context, fp model.Fingerprint, now time.Time) (dto.WindowDecision, error) {
	recent, err := q.trades.FindByFingerprintSince(ctx, fp.String(), now.Add(-q.window))
	if err != nil {
		return dto.WindowDecision{}, fmt.Errorf("load window history: %w", err)
	}

	decision := dto.WindowDecision{Allowed: true, InWindow: len(recent)}
	if len(recent) < q.limit {
		return decision, nil
	}

	retryAfter := recent[0].CreatedAt.Add(q.window).Sub(now)
	if retryAfter > 0 {
		decision.Allowed = false
		decision.RetryAfter = retryAfter
	}
	return decision, nil
}

// FormatWait renders a wait as whole hours and minutes, rounded down.
func FormatWait(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
