package domain

import "context"

// EventBus is the completion-event collaborator: the API layer publishes
// exactly one analysis.completed event (and one fraud_ring.detected event
// per ring) after a batch finishes. This is not a streaming/incremental
// pipeline; it is a single notification per finished analysis.
type EventBus interface {
	// Publish sends a message to a topic.
	Publish(ctx context.Context, topic string, payload []byte) error

	// Subscribe registers a handler for a topic and returns a
	// subscription that can be used to unsubscribe.
	Subscribe(ctx context.Context, topic string, handler MessageHandler) (Subscription, error)

	// Ping checks connectivity/health.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error
}

// MessageHandler processes incoming messages.
type MessageHandler func(ctx context.Context, msg *Message) error

// Message represents an event message.
type Message struct {
	ID        string            `json:"id"`
	Topic     string            `json:"topic"`
	Payload   []byte            `json:"payload"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp int64             `json:"timestamp"`
}

// Subscription represents an active subscription.
type Subscription interface {
	Unsubscribe() error
	Topic() string
}

// EventBusConfig holds configuration for event bus initialization.
type EventBusConfig struct {
	// Type is the bus backend: "channel" or "nats"
	Type string

	ChannelBufferSize int

	NATSUrl           string
	NATSToken         string
	NATSMaxReconnects int
	NATSReconnectWait int // seconds
}

// Standard topic names published by the API layer after an analysis.
const (
	TopicAnalysisCompleted = "analysis.completed"
	TopicFraudRingDetected = "fraud_ring.detected"
)
