package outbox

import (
	"time"
)

// Message represents an event that could not be published to RabbitMQ
// and waits in the outbox table for a retried delivery.
type Message struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// NewMessage builds a pending outbox message for the given queue.
func NewMessage(queueName string, payload []byte, lastError string) Message {
	now := time.Now()

	return Message{
		QueueName:   queueName,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  10,
		LastError:   lastError,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
}
