package services

import (
	"context"
	"testing"

	"github.com/avvalues/trade-hub/model"
	"gorm.io/datatypes"
)

func TestNewTradeAcceptedEvent(t *testing.T) {
	trade := &model.Trade{
		ID:        "0190a1b2-0000-7000-8000-000000000001",
		Title:     "Aurora for Nova",
		Player1:   datatypes.JSONSlice[model.OfferItem]{{Name: "Aurora"}, {Name: "Zephyr"}},
		Player2:   datatypes.JSONSlice[model.OfferItem]{{Name: "Nova"}},
		P1Total:   15,
		P2Total:   20,
		Verdict:   "Win for Advertiser",
		CreatedAt: epoch,
	}

	event := NewTradeAcceptedEvent(trade)
	if event.Type != EventTradeAccepted {
		t.Errorf("type = %q", event.Type)
	}
	if event.TradeID != trade.ID || event.Items != 3 {
		t.Errorf("event = %+v", event)
	}
}

func TestEventService_DisabledIsNoop(t *testing.T) {
	svc := &EventService{}
	if svc.Enabled() {
		t.Fatal("service without brokers should be disabled")
	}
	if err := svc.PublishTradeAccepted(context.Background(), &model.Trade{ID: "x"}); err != nil {
		t.Errorf("disabled publish returned %v", err)
	}
}
