// Package messaging forwards article lifecycle events to Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/spec-kit/newsroom/internal/config"
	"github.com/spec-kit/newsroom/internal/events"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher writes events to a Kafka topic keyed by article id.
type EventPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

// NewEventPublisher returns nil when no brokers are configured.
func NewEventPublisher(cfg config.KafkaConfig, logger *zap.Logger) *EventPublisher {
	if !cfg.Enabled() {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("kafka delivery failed", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}
	logger.Info("kafka event feed enabled", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return newEventPublisher(writer, logger)
}

func newEventPublisher(writer messageWriter, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{writer: writer, logger: logger}
}

// Register subscribes the publisher to every article lifecycle event.
func (p *EventPublisher) Register(dispatcher events.Dispatcher) {
	if p == nil || dispatcher == nil {
		return
	}
	for _, eventType := range events.ArticleEventTypes() {
		dispatcher.Subscribe(eventType, p.Forward)
	}
}

// Forward encodes event and hands it to the writer.
func (p *EventPublisher) Forward(ctx context.Context, event events.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ArticleID),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", event.Type, err)
	}
	return nil
}

// Close flushes pending messages.
func (p *EventPublisher) Close() error {
	if p == nil {
		return nil
	}
	p.logger.Info("closing kafka event feed")
	return p.writer.Close()
}
