package sender

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// EmailSender delivers a message with both an HTML and a plain-text body
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) (SendResult, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, msg string) (SendResult, error)
}
