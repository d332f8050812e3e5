package ports

import "context"

// MessageHandler receives inbound messages for a subscription. It is invoked
// on a goroutine owned by the transport implementation; handlers must only
// enqueue work for the core to pick up on its own workers, never execute
// business logic inline.
type MessageHandler func(topic string, payload []byte)

// Transport is the pub/sub boundary of the agent. Reconnection after a
// session drop is the implementation's own concern; the agent only consults
// Connected to decide whether publishing is worth attempting.
type Transport interface {
	// Connect establishes the session. Failure here is fatal to startup.
	Connect(ctx context.Context) error

	// Connected reports the current session state. It is a cheap snapshot
	// safe to call from any goroutine.
	Connected() bool

	// Publish sends one message. It may block briefly; an error means the
	// message is lost (the agent never retries a publish).
	Publish(topic string, qos byte, payload []byte) error

	// Subscribe registers a handler for a topic. Subscriptions survive
	// reconnects.
	Subscribe(topic string, qos byte, handler MessageHandler) error

	// Close tears the session down. Called after all workers join.
	Close()
}
