package services

import (
	"context"
	"encoding/json"
	"fmt"
	"pizzeria_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventService publishes order events to Kafka, keyed by order id so the
// events of one order stay ordered. Without brokers it only logs.
type EventService struct {
	logger *gecho.Logger
	cfg    *structs.KafkaConfig
	writer messageWriter
}

func NewEventService(logger *gecho.Logger, cfg *structs.KafkaConfig) *EventService {
	es := &EventService{logger: logger, cfg: cfg}
	if len(cfg.Brokers) > 0 {
		es.writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.OrderTopic,
			Balancer:     &kafka.Hash{},
			WriteTimeout: cfg.WriteTimeout,
			RequiredAcks: kafka.RequireOne,
		}
	}
	return es
}

func (es *EventService) PublishOrderEvent(ctx context.Context, event structs.OrderEvent) error {
	if es.writer == nil {
		es.logger.Debug("Kafka disabled, dropping order event",
			gecho.Field("type", event.Type),
			gecho.Field("order_id", event.OrderId))
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	err = es.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderId.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (es *EventService) Close() error {
	if es.writer == nil {
		return nil
	}
	return es.writer.Close()
}
