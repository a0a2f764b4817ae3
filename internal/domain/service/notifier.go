package service

import "context"

// Message is a single outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string // HTML body
}

// Notifier defines the outbound notification channel (email dispatch).
// Implementations must honour context cancellation so callers can bound
// delivery with a timeout; a timed-out send surfaces as an ordinary error.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
