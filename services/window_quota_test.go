package services

import (
	"context"
	"testing"
	"time"

	"github.com/avvalues/trade-hub/model"
)

type fakeHistory struct {
	trades []model.Trade
}

func (h *fakeHistory) FindByFingerprintSince(ctx context.Context, fingerprint string, since time.Time) ([]model.Trade, error) {
	var out []model.Trade
	for _, trade := range h.trades {
		if trade.Fingerprint == fingerprint && !trade.CreatedAt.Before(since) {
			out = append(out, trade)
		}
	}
	return out, nil
}

func (h *fakeHistory) add(fp model.Fingerprint, at time.Time) {
	h.trades = append(h.trades, model.Trade{Fingerprint: fp.String(), CreatedAt: at})
}

func TestWindowQuota_AnchorsOnOldestTrade(t *testing.T) {
	history := &fakeHistory{}
	quota := NewWindowQuota(history, 2, 24*time.Hour)
	ctx := context.Background()

	history.add(testFingerprint, epoch)
	history.add(testFingerprint, epoch.Add(time.Hour))

	decision, err := quota.Check(ctx, testFingerprint, epoch.Add(2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if decision.Allowed {
		t.Fatal("third trade inside the window should be rejected")
	}
	if decision.InWindow != 2 {
		t.Errorf("in window = %d, want 2", decision.InWindow)
	}
	if decision.RetryAfter != 22*time.Hour {
		t.Errorf("retry after = %v, want 22h", decision.RetryAfter)
	}

	// Once the oldest trade leaves the window a slot opens, even though the
	// second trade is still inside it.
	decision, err = quota.Check(ctx, testFingerprint, epoch.Add(24*time.Hour+time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !decision.Allowed {
		t.Error("slot should free up when the oldest trade ages out")
	}
	if decision.InWindow != 1 {
		t.Errorf("in window = %d, want 1", decision.InWindow)
	}
}

func TestWindowQuota_BoundaryAllows(t *testing.T) {
	history := &fakeHistory{}
	quota := NewWindowQuota(history, 2, 24*time.Hour)

	history.add(testFingerprint, epoch)
	history.add(testFingerprint, epoch.Add(time.Hour))

	decision, err := quota.Check(context.Background(), testFingerprint, epoch.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !decision.Allowed {
		t.Error("a zero wait should not reject")
	}
}

func TestWindowQuota_OtherFingerprintsIgnored(t *testing.T) {
	history := &fakeHistory{}
	quota := NewWindowQuota(history, 2, 24*time.Hour)

	other := model.NewFingerprint("198.51.100.1", "Mozilla/5.0")
	history.add(other, epoch)
	history.add(other, epoch.Add(time.Minute))

	decision, err := quota.Check(context.Background(), testFingerprint, epoch.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !decision.Allowed || decision.InWindow != 0 {
		t.Errorf("unexpected decision %+v", decision)
	}
}

func TestFormatWait(t *testing.T) {
	tests := []struct {
		wait time.Duration
		want string
	}{
		{22 * time.Hour, "22h 0m"},
		{90*time.Minute + 59*time.Second, "1h 30m"},
		{59 * time.Second, "0h 0m"},
		{-time.Minute, "0h 0m"},
		{23*time.Hour + 59*time.Minute, "23h 59m"},
	}

	for _, tt := range tests {
		if got := FormatWait(tt.wait); got != tt.want {
			t.Errorf("FormatWait(%v) = %q, want %q", tt.wait, got, tt.want)
		}
	}
}
