package kafka

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kamaudevs/sokoapi/common/logger"
	"github.com/kamaudevs/sokoapi/models"
)

// Handler processes one order event
type Handler func(ctx context.Context, eventType string, orderID uuid.UUID)

// Consumer reads order events and hands them to a handler. Malformed
// messages are logged and skipped; there is no retry.
type Consumer struct {
	reader *kafkago.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: r}
}

// Run consumes until the context is cancelled
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	logger.Info(ctx, "Notification consumer listening",
		zap.String("topic", c.reader.Config().Topic),
		zap.String("group", c.reader.Config().GroupID),
	)

	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error(ctx, "Failed to read message", err)
			continue
		}

		var evt models.OrderEvent
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			logger.Error(ctx, "Invalid event payload", err,
				zap.ByteString("payload", m.Value))
			continue
		}

		handle(ctx, evt.EventType, evt.OrderID)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
