package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/avvalues/trade-hub/dto"
	"github.com/avvalues/trade-hub/model"
	"github.com/avvalues/trade-hub/shared"
)

var testClient = dto.ClientInfo{IP: "203.0.113.7", UserAgent: "Mozilla/5.0"}

func strPtr(s string) *string { return &s }

func tradeRequest(title, description string) dto.SubmitTradeRequest {
	return dto.SubmitTradeRequest{
		Title:       strPtr(title),
		Description: description,
		Player1:     []model.OfferItem{{Name: "Aurora", Value: 10}},
		Player2:     []model.OfferItem{{Name: "Nova", Value: 12}},
	}
}

func TestSubmitTrade_WindowQuota(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())
	ctx := context.Background()

	if _, err := f.svc.SubmitTrade(ctx, tradeRequest("First trade", "one"), testClient); err != nil {
		t.Fatalf("first trade: %v", err)
	}

	f.clock.Set(epoch.Add(time.Hour))
	if _, err := f.svc.SubmitTrade(ctx, tradeRequest("Second trade", "two"), testClient); err != nil {
		t.Fatalf("second trade: %v", err)
	}

	f.clock.Set(epoch.Add(2 * time.Hour))
	_, err := f.svc.SubmitTrade(ctx, tradeRequest("Third trade", "three"), testClient)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.Kind != shared.KindWindowExceeded {
		t.Fatalf("expected window exceeded, got %v", err)
	}
	if appErr.RetryAfter != 22*time.Hour {
		t.Errorf("retry after = %v, want 22h", appErr.RetryAfter)
	}
	want := "You can only post 2 trades every 24 hours. Please try again in 22h 0m."
	if appErr.Message != want {
		t.Errorf("message = %q, want %q", appErr.Message, want)
	}

	f.clock.Set(epoch.Add(24*time.Hour + time.Second))
	if _, err := f.svc.SubmitTrade(ctx, tradeRequest("Third trade", "three"), testClient); err != nil {
		t.Fatalf("trade after the oldest aged out: %v", err)
	}

	if got := f.publisher.Published(); got != 3 {
		t.Errorf("published %d events, want 3", got)
	}
}

func TestSubmitTrade_Duplicate(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())
	ctx := context.Background()

	if _, err := f.svc.SubmitTrade(ctx, tradeRequest("Aurora for Nova", "fair offer"), testClient); err != nil {
		t.Fatal(err)
	}

	f.clock.Set(epoch.Add(5 * time.Minute))
	_, err := f.svc.SubmitTrade(ctx, tradeRequest("  Aurora for Nova ", "fair offer  "), testClient)
	if !shared.IsKind(err, shared.KindDuplicateSubmission) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if appErr, _ := shared.GetAppError(err); appErr.StatusCode != 409 {
		t.Errorf("status = %d, want 409", appErr.StatusCode)
	}

	// Another client may post the same text.
	other := dto.ClientInfo{IP: "198.51.100.9", UserAgent: "Mozilla/5.0"}
	if _, err := f.svc.SubmitTrade(ctx, tradeRequest("Aurora for Nova", "fair offer"), other); err != nil {
		t.Errorf("other client: %v", err)
	}

	// A changed description is not a duplicate.
	if _, err := f.svc.SubmitTrade(ctx, tradeRequest("Aurora for Nova", "better offer"), testClient); err != nil {
		t.Errorf("changed description: %v", err)
	}
}

func TestSubmitTrade_Truncation(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())

	req := tradeRequest("Long trade", strings.Repeat("q", 250))
	req.Discord = strings.Repeat("d", 40)
	req.Roblox = strings.Repeat("r", 30)

	trade, err := f.svc.SubmitTrade(context.Background(), req, testClient)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(trade.Description); got != shared.MaxDescriptionLength {
		t.Errorf("description length = %d, want %d", got, shared.MaxDescriptionLength)
	}
	if got := len(trade.Discord); got != shared.MaxDiscordLength {
		t.Errorf("discord length = %d, want %d", got, shared.MaxDiscordLength)
	}
	if got := len(trade.Roblox); got != shared.MaxRobloxLength {
		t.Errorf("roblox length = %d, want %d", got, shared.MaxRobloxLength)
	}
}

func TestSubmitTrade_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.SubmitTradeRequest
	}{
		{"short title", tradeRequest("ab", "")},
		{"blank title", tradeRequest("    ", "")},
		{"no units", dto.SubmitTradeRequest{Title: strPtr("Empty trade"), Player1: []model.OfferItem{}, Player2: []model.OfferItem{}}},
		{"missing side", dto.SubmitTradeRequest{Title: strPtr("One side"), Player1: []model.OfferItem{{Name: "Aurora"}}}},
		{"unnamed item", dto.SubmitTradeRequest{Player1: []model.OfferItem{{Value: 3}}, Player2: []model.OfferItem{}}},
		{"negative value", dto.SubmitTradeRequest{Player1: []model.OfferItem{{Name: "Aurora", Value: -1}}, Player2: []model.OfferItem{}}},
	}

	f := newTradeFixture(t, DefaultTradeLimits())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SubmitTrade(context.Background(), tt.req, testClient)
			if !shared.IsKind(err, shared.KindInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}

	// Rejected input never reaches the limiter.
	n, err := f.svc.buckets.CountBuckets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("buckets = %d, want 0", n)
	}
}

func TestSubmitTrade_NoUnitsMessage(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())

	req := dto.SubmitTradeRequest{Player1: []model.OfferItem{}, Player2: []model.OfferItem{}}
	_, err := f.svc.SubmitTrade(context.Background(), req, testClient)
	appErr, ok := shared.GetAppError(err)
	if !ok {
		t.Fatalf("expected app error, got %v", err)
	}
	if appErr.Message != "Please add units to your trade." {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestSubmitTrade_DerivedFields(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())

	req := dto.SubmitTradeRequest{
		Player1: []model.OfferItem{{Name: "Aurora", Value: 10}, {Name: "Zephyr", Value: 5}},
		Player2: []model.OfferItem{{Name: "Nova", Value: 20}},
	}
	trade, err := f.svc.SubmitTrade(context.Background(), req, testClient)
	if err != nil {
		t.Fatal(err)
	}

	if trade.Title != "Aurora, Zephyr for Nova" {
		t.Errorf("title = %q", trade.Title)
	}
	if trade.P1Total != 15 || trade.P2Total != 20 {
		t.Errorf("totals = %v / %v, want 15 / 20", trade.P1Total, trade.P2Total)
	}
	if trade.Verdict != shared.VerdictWin {
		t.Errorf("verdict = %q", trade.Verdict)
	}
	if trade.ID == "" {
		t.Error("trade id not assigned")
	}
	if !trade.CreatedAt.Equal(epoch) {
		t.Errorf("created at = %v, want %v", trade.CreatedAt, epoch)
	}
	if trade.Fingerprint != model.NewFingerprint(testClient.IP, testClient.UserAgent).String() {
		t.Errorf("fingerprint = %q", trade.Fingerprint)
	}
}

func TestSubmitTrade_ClientTotalsAndVerdict(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())

	p1, p2 := 100.0, 50.0
	req := tradeRequest("Client totals", "")
	req.P1Total = &p1
	req.P2Total = &p2
	req.Verdict = strPtr("Overpay")

	trade, err := f.svc.SubmitTrade(context.Background(), req, testClient)
	if err != nil {
		t.Fatal(err)
	}
	if trade.P1Total != 100 || trade.P2Total != 50 {
		t.Errorf("totals = %v / %v", trade.P1Total, trade.P2Total)
	}
	if trade.Verdict != "Overpay" {
		t.Errorf("verdict = %q", trade.Verdict)
	}
}

func TestSubmitTrade_BannedWords(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())
	ctx := context.Background()

	if _, err := f.moderation.AddBannedWord(ctx, "Scam"); err != nil {
		t.Fatal(err)
	}

	trade, err := f.svc.SubmitTrade(ctx, tradeRequest("Scam alert", "no scam here, scammers welcome"), testClient)
	if err != nil {
		t.Fatal(err)
	}
	if trade.Title != "*** alert" {
		t.Errorf("title = %q", trade.Title)
	}
	if trade.Description != "no *** here, scammers welcome" {
		t.Errorf("description = %q", trade.Description)
	}

	// The duplicate check compares the filtered text that was stored.
	f.clock.Set(epoch.Add(time.Minute))
	_, err = f.svc.SubmitTrade(ctx, tradeRequest("SCAM alert", "no scam here, scammers welcome"), testClient)
	if !shared.IsKind(err, shared.KindDuplicateSubmission) {
		t.Errorf("expected duplicate after filtering, got %v", err)
	}
}

func TestSubmitTrade_RateLimit(t *testing.T) {
	limits := DefaultTradeLimits()
	limits.WindowLimit = 100
	f := newTradeFixture(t, limits)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if _, err := f.svc.SubmitTrade(ctx, tradeRequest(fmt.Sprintf("Trade %d", i), ""), testClient); err != nil {
			t.Fatalf("trade %d: %v", i, err)
		}
	}

	_, err := f.svc.SubmitTrade(ctx, tradeRequest("Trade 4", ""), testClient)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.Kind != shared.KindRateExceeded {
		t.Fatalf("expected rate exceeded, got %v", err)
	}
	if appErr.RetryAfter != time.Minute {
		t.Errorf("retry after = %v, want 1m", appErr.RetryAfter)
	}
	if appErr.Message != "Too many trade posts. Limit is 3 per minute." {
		t.Errorf("message = %q", appErr.Message)
	}

	trades, err := f.svc.ListTrades(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 3 {
		t.Errorf("stored %d trades, want 3", len(trades))
	}
}

func TestSubmitTrade_StoreFailure(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())

	sqlDB, err := f.db.DB()
	if err != nil {
		t.Fatal(err)
	}
	_ = sqlDB.Close()

	_, err = f.svc.SubmitTrade(context.Background(), tradeRequest("Closed store", ""), testClient)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.Kind != shared.KindStoreFailure {
		t.Fatalf("expected store failure, got %v", err)
	}
	if appErr.StatusCode != 500 {
		t.Errorf("status = %d, want 500", appErr.StatusCode)
	}
}

func TestSubmitTrade_PublisherFailureIgnored(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())
	f.publisher.err = errors.New("broker unavailable")

	trade, err := f.svc.SubmitTrade(context.Background(), tradeRequest("Still stored", ""), testClient)
	if err != nil {
		t.Fatalf("publish failure must not reject the trade: %v", err)
	}
	if trade.ID == "" {
		t.Error("trade not stored")
	}
}

func TestListTrades_SearchAndRetention(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())
	ctx := context.Background()

	if _, err := f.svc.SubmitTrade(ctx, tradeRequest("Aurora for Nova", "quick deal"), testClient); err != nil {
		t.Fatal(err)
	}
	other := dto.ClientInfo{IP: "198.51.100.9", UserAgent: "Mozilla/5.0"}
	if _, err := f.svc.SubmitTrade(ctx, tradeRequest("Zephyr wanted", "paying well"), other); err != nil {
		t.Fatal(err)
	}

	found, err := f.svc.ListTrades(ctx, "NOVA")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].Title != "Aurora for Nova" {
		t.Errorf("search returned %+v", found)
	}

	f.clock.Set(epoch.Add(8 * 24 * time.Hour))
	found, err = f.svc.ListTrades(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 0 {
		t.Errorf("expired trades still listed: %d", len(found))
	}
	if found == nil {
		t.Error("empty list should not be nil")
	}
}

func TestClearTradesAndStats(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		if _, err := f.svc.SubmitTrade(ctx, tradeRequest(fmt.Sprintf("Trade %d", i), ""), testClient); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.moderation.AddBannedWord(ctx, "scam"); err != nil {
		t.Fatal(err)
	}

	stats, err := f.svc.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Trades != 2 || stats.BannedWords != 1 || stats.RateBuckets != 2 {
		t.Errorf("stats = %+v", stats)
	}

	deleted, err := f.svc.ClearTrades(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	trades, err := f.svc.ListTrades(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 0 {
		t.Errorf("trades left after clear: %d", len(trades))
	}
}

func TestEvaluateTrade(t *testing.T) {
	f := newTradeFixture(t, DefaultTradeLimits())

	eval, err := f.svc.EvaluateTrade(dto.EvaluateTradeRequest{
		Player1: []model.OfferItem{{Name: "Aurora", Value: 30}},
		Player2: []model.OfferItem{{Name: "Nova", Value: 10}, {Name: "Zephyr", Value: 5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if eval.Difference != 15 {
		t.Errorf("difference = %v, want 15", eval.Difference)
	}
	if eval.Verdict != shared.VerdictLoss {
		t.Errorf("verdict = %q", eval.Verdict)
	}
	if eval.Title != "Aurora for Nova, Zephyr" {
		t.Errorf("title = %q", eval.Title)
	}

	_, err = f.svc.EvaluateTrade(dto.EvaluateTradeRequest{Player1: []model.OfferItem{{Value: 1}}})
	if !shared.IsKind(err, shared.KindInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestFormatWindow(t *testing.T) {
	tests := map[time.Duration]string{
		time.Hour:        "hour",
		24 * time.Hour:   "24 hours",
		90 * time.Minute: "1h30m0s",
	}
	for window, want := range tests {
		if got := formatWindow(window); got != want {
			t.Errorf("formatWindow(%v) = %q, want %q", window, got, want)
		}
	}
}
