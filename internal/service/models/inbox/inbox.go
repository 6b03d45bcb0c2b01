package inbox

import (
	"time"
)

// Message is a push payload parked for another delivery attempt.
type Message struct {
	ID          int64
	MessageID   string
	QueueName   string
	Payload     []byte
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}

// Exhausted reports whether one more failure would exceed MaxRetries.
func (m Message) Exhausted() bool {
	return m.RetryCount+1 >= m.MaxRetries
}
