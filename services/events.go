package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/avvalues/trade-hub/model"
	"github.com/avvalues/trade-hub/shared"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const (
	EVENTS_SVC = "events_svc"

	EventTradeAccepted = "trade.accepted"
)

type TradePublisher interface {
	PublishTradeAccepted(ctx context.Context, trade *model.Trade) error
}

type TradeAcceptedEvent struct {
	Type      string    `json:"type"`
	TradeID   string    `json:"tradeId"`
	Title     string    `json:"title"`
	P1Total   float64   `json:"p1Total"`
	P2Total   float64   `json:"p2Total"`
	Verdict   string    `json:"verdict"`
	Items     int       `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewTradeAcceptedEvent(trade *model.Trade) TradeAcceptedEvent {
	return TradeAcceptedEvent{
		Type:      EventTradeAccepted,
		TradeID:   trade.ID,
		Title:     trade.Title,
		P1Total:   trade.P1Total,
		P2Total:   trade.P2Total,
		Verdict:   trade.Verdict,
		Items:     len(trade.Player1) + len(trade.Player2),
		CreatedAt: trade.CreatedAt,
	}
}

// EventService publishes accepted trades to Kafka. With no brokers configured it is a no-op.
type EventService struct {
	appContext.DefaultService

	brokers []string
	topic   string
	writer  *kafka.Writer
}

func (svc EventService) Id() string {
	return EVENTS_SVC
}

func (svc *EventService) Configure(ctx *appContext.Context) error {
	svc.brokers = shared.GetEnvStringSlice("KAFKA_BROKERS", nil)
	svc.topic = shared.GetEnvString("KAFKA_TRADE_TOPIC", "trade-hub.trades")
	return svc.DefaultService.Configure(ctx)
}

func (svc *EventService) Start() error {
	if len(svc.brokers) == 0 {
		log.Info("KAFKA_BROKERS not set, trade events disabled")
		return nil
	}

	svc.writer = &kafka.Writer{
		Addr:                   kafka.TCP(svc.brokers...),
		Topic:                  svc.topic,
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.WithError(err).WithField("messages", len(messages)).Error("Failed to publish trade events")
			}
		},
	}

	log.WithFields(log.Fields{"brokers": svc.brokers, "topic": svc.topic}).Info("Trade events enabled")
	return nil
}

func (svc *EventService) Shutdown() {
	if svc.writer != nil {
		if err := svc.writer.Close(); err != nil {
			log.WithError(err).Error("Failed to close kafka writer")
		}
	}
}

func (svc *EventService) Enabled() bool {
	return svc.writer != nil
}

func (svc *EventService) PublishTradeAccepted(ctx context.Context, trade *model.Trade) error {
	if svc.writer == nil {
		return nil
	}

	payload, err := shared.JSONAPI.Marshal(NewTradeAcceptedEvent(trade))
	if err != nil {
		return err
	}

	return svc.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(trade.ID),
		Value: payload,
		Time:  trade.CreatedAt,
	})
}
