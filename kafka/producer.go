package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kamaudevs/sokoapi/common/logger"
	"github.com/kamaudevs/sokoapi/models"
)

// Producer publishes order events to the notification topic
type Producer struct {
	writer *kafkago.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}
	return &Producer{writer: w, topic: topic}
}

// Enqueue publishes an order event keyed by the order id. At-most-once,
// best-effort: the caller decides whether a failure matters.
func (p *Producer) Enqueue(ctx context.Context, eventType string, orderID uuid.UUID) error {
	evt := models.OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		QueuedAt:  time.Now().UTC(),
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	msg := kafkago.Message{
		Key:   []byte(orderID.String()),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	logger.Debug(ctx, "Order event published",
		zap.String("order_id", orderID.String()),
		zap.String("event_type", eventType),
		zap.String("topic", p.topic),
	)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
