// Package interfaces defines extensible interfaces for pub/sub transport
// implementations. Each transport (e.g. MQTT, an in-process broker for tests)
// must implement Transport.
package interfaces

import "fmt"

// MessageFunc receives every raw message delivered for a subscribed filter.
// Implementations must call it from one serialized delivery path so that the
// dispatcher never sees two messages concurrently.
type MessageFunc func(topic string, payload []byte)

// Transport abstracts the broker connection used by a Hermes app. Connection
// management, reconnects and QoS are the transport's business; the dispatcher
// only publishes and consumes (topic, payload) pairs.
type Transport interface {
	// Connect establishes the broker connection.
	Connect() error

	// Subscribe registers the message callback for the given topic filters.
	// It is called once at startup with the full filter union.
	Subscribe(fn MessageFunc, filters ...string) error

	// Publish sends one payload to a topic.
	Publish(topic string, payload []byte) error

	// Disconnect closes the connection. Safe to call on a transport that
	// never connected.
	Disconnect()
}

// Config carries the connection settings a transport factory needs.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	ClientID string
}

// Factory builds a transport from connection settings.
type Factory func(cfg Config) (Transport, error)

var registeredTransports = make(map[string]Factory)

// RegisterTransport adds a transport factory to the global registry under a
// unique name.
func RegisterTransport(name string, factory Factory) {
	if _, exists := registeredTransports[name]; exists {
		panic(fmt.Sprintf("transport already registered: %s", name))
	}
	registeredTransports[name] = factory
}

// OpenTransport builds a previously registered transport by name.
func OpenTransport(name string, cfg Config) (Transport, error) {
	factory, ok := registeredTransports[name]
	if !ok {
		return nil, fmt.Errorf("no transport registered with name: %s", name)
	}
	return factory(cfg)
}
