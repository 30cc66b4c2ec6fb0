package services

import (
	"context"
	"strings"
	"time"

	"github.com/avvalues/trade-hub/model"
)

type DuplicateLookup interface {
	ExistsDuplicate(ctx context.Context, fingerprint, title, description string, since time.Time) (bool, error)
}

// DuplicateGuard rejects a repost of the same title and description by the same fingerprint.
type DuplicateGuard struct {
	trades    DuplicateLookup
	retention time.Duration
}

func NewDuplicateGuard(trades DuplicateLookup, retention time.Duration) *DuplicateGuard {
	return &DuplicateGuard{trades: trades, retention: retention}
}

// IsDuplicate compares exact trimmed strings against the fingerprint's live trades.
func (g *DuplicateGuard) IsDuplicate(ctx context.Context, fp model.Fingerprint, title, description string, now time.Time) (bool, error) {
	return g.trades.ExistsDuplicate(ctx,
		fp.String(),
		strings.TrimSpace(title),
		strings.TrimSpace(description),
		now.Add(-g.retention),
	)
}
