package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
	NotificationStatusSkipped = "skipped"

	EventOrderCreated = "order.created"
)

// NotificationLog records the outcome of a single delivery attempt.
// Best-effort: writing the log must never fail a dispatch.
type NotificationLog struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;index"`
	Recipient string    `json:"recipient"`
	Channel   string    `json:"channel"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// OrderEvent is the queue payload for order notifications. It carries only the
// order id; the dispatcher re-fetches state at execution time.
type OrderEvent struct {
	EventType string    `json:"event_type"`
	OrderID   uuid.UUID `json:"order_id"`
	QueuedAt  time.Time `json:"queued_at"`
}
