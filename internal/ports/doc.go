// Package ports defines the interfaces that connect the agent core to the
// outside world: the motion-control device and the pub/sub transport.
//
// The application layer (internal/agent) depends only on these interfaces.
// Concrete implementations live in internal/adapters (paho MQTT, simulated
// stage) and in embedders of the library, which keeps the core testable with
// plain fakes and the infrastructure swappable.
package ports
