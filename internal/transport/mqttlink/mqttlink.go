// Package mqttlink provides the MQTT transport implementation backed by the
// Eclipse Paho client. It registers itself under the name "mqtt" and manages
// the broker connection with automatic reconnect and re-subscription.
package mqttlink

import (
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hermodvoice/hermod/interfaces"
	"github.com/hermodvoice/hermod/internal/logging"
)

const (
	connectTimeout    = 10 * time.Second
	disconnectQuiesce = 250 // milliseconds, paho convention
)

type mqttTransport struct {
	client mqtt.Client

	mu      sync.Mutex
	fn      interfaces.MessageFunc
	filters []string
}

func init() {
	interfaces.RegisterTransport("mqtt", New)
}

// New creates an MQTT transport from connection settings.
func New(cfg interfaces.Config) (interfaces.Transport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("mqtt transport: host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 1883
	}

	t := &mqttTransport{}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetOrderMatters(true). // one serialized delivery path into the dispatcher
		SetOnConnectHandler(t.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logging.Log.Warnf("[mqtt] connection lost: %v", err)
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	t.client = mqtt.NewClient(opts)
	return t, nil
}

// Connect establishes the broker connection.
func (t *mqttTransport) Connect() error {
	token := t.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt transport: connect timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt transport: connect: %w", err)
	}
	return nil
}

// Subscribe registers the message callback for the given filters. The
// subscriptions are remembered and replayed after a reconnect.
func (t *mqttTransport) Subscribe(fn interfaces.MessageFunc, filters ...string) error {
	t.mu.Lock()
	t.fn = fn
	t.filters = append(t.filters, filters...)
	t.mu.Unlock()

	return t.subscribe(fn, filters)
}

func (t *mqttTransport) subscribe(fn interfaces.MessageFunc, filters []string) error {
	if len(filters) == 0 {
		return nil
	}
	topics := make(map[string]byte, len(filters))
	for _, filter := range filters {
		topics[filter] = 0
	}
	token := t.client.SubscribeMultiple(topics, func(_ mqtt.Client, msg mqtt.Message) {
		fn(msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt transport: subscribe: %w", err)
	}
	return nil
}

// onConnect restores subscriptions after the initial connect and every
// reconnect. Clean sessions drop server-side subscription state.
func (t *mqttTransport) onConnect(mqtt.Client) {
	t.mu.Lock()
	fn := t.fn
	filters := make([]string, len(t.filters))
	copy(filters, t.filters)
	t.mu.Unlock()

	if fn == nil {
		return
	}
	if err := t.subscribe(fn, filters); err != nil {
		logging.Log.Errorf("[mqtt] re-subscribe failed: %v", err)
	}
}

// Publish sends one payload to a topic.
func (t *mqttTransport) Publish(topic string, payload []byte) error {
	token := t.client.Publish(topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt transport: publish %s: %w", topic, err)
	}
	return nil
}

// Disconnect closes the connection.
func (t *mqttTransport) Disconnect() {
	if t.client.IsConnected() {
		t.client.Disconnect(disconnectQuiesce)
	}
}
