// Package mqtt adapts the paho MQTT client to the ports.Transport interface.
//
// Reconnection is delegated to paho's auto-reconnect; the adapter tracks the
// session state in an atomic flag and re-establishes subscriptions from its
// own registry on every successful (re)connect. Inbound message callbacks
// run on paho-owned goroutines, so registered handlers must only enqueue.
package mqtt

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/stagelab/stagestream/internal/ports"
	"github.com/stagelab/stagestream/pkg/log"
)

const (
	connectRetryInterval = 2 * time.Second
	maxReconnectInterval = 30 * time.Second
	publishTimeout       = 2 * time.Second
	subscribeTimeout     = 5 * time.Second
	disconnectQuiesceMs  = 250
)

// Client implements ports.Transport over an MQTT broker.
type Client struct {
	brokerURL      string
	clientID       string
	connectTimeout time.Duration
	logger         log.Logger

	cli       paho.Client
	connected atomic.Bool

	mu   sync.Mutex
	subs map[string]subscription
}

type subscription struct {
	qos     byte
	handler ports.MessageHandler
}

// New creates a client for the given broker. Connect must be called before
// any publish or subscribe.
func New(brokerURL, clientID string, connectTimeout time.Duration, logger log.Logger) *Client {
	return &Client{
		brokerURL:      brokerURL,
		clientID:       clientID,
		connectTimeout: connectTimeout,
		logger:         logger,
		subs:           make(map[string]subscription),
	}
}

// Connect establishes the broker session and blocks up to the configured
// timeout. Failure here is fatal to startup; once connected, later session
// drops are handled by paho's auto-reconnect.
func (c *Client) Connect(ctx context.Context) error {
	opts := paho.NewClientOptions()
	opts.AddBroker(c.brokerURL)
	opts.SetClientID(c.clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetryInterval(connectRetryInterval)
	opts.SetMaxReconnectInterval(maxReconnectInterval)

	opts.OnConnect = func(_ paho.Client) {
		c.connected.Store(true)
		c.logger.Info("mqtt connected", log.String("broker", c.brokerURL))
		c.resubscribe()
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		c.connected.Store(false)
		c.logger.Warn("mqtt connection lost, auto-reconnect pending",
			log.String("broker", c.brokerURL),
			log.Err(err),
		)
	}

	c.cli = paho.NewClient(opts)

	c.logger.Info("connecting to mqtt broker", log.String("broker", c.brokerURL))
	token := c.cli.Connect()
	if !token.WaitTimeout(c.connectTimeout) {
		return fmt.Errorf("mqtt connect: timeout after %s", c.connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	if err := ctx.Err(); err != nil {
		c.Close()
		return err
	}

	c.connected.Store(true)
	return nil
}

// Connected reports the current session state.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Publish sends one message and waits briefly for the client to accept it.
// An error means the message is lost; the agent never retries.
func (c *Client) Publish(topic string, qos byte, payload []byte) error {
	token := c.cli.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe registers a handler and subscribes. The registration is kept so
// the subscription survives reconnects.
func (c *Client) Subscribe(topic string, qos byte, handler ports.MessageHandler) error {
	c.mu.Lock()
	c.subs[topic] = subscription{qos: qos, handler: handler}
	c.mu.Unlock()

	return c.subscribe(topic, qos, handler)
}

func (c *Client) subscribe(topic string, qos byte, handler ports.MessageHandler) error {
	token := c.cli.Subscribe(topic, qos, func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(subscribeTimeout) {
		return fmt.Errorf("mqtt subscribe %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", topic, err)
	}
	c.logger.Info("mqtt subscribed", log.String("topic", topic))
	return nil
}

// resubscribe restores every registered subscription after a reconnect.
func (c *Client) resubscribe() {
	c.mu.Lock()
	subs := make(map[string]subscription, len(c.subs))
	for t, s := range c.subs {
		subs[t] = s
	}
	c.mu.Unlock()

	for topic, s := range subs {
		if err := c.subscribe(topic, s.qos, s.handler); err != nil {
			c.logger.Error("mqtt resubscribe failed", log.String("topic", topic), log.Err(err))
		}
	}
}

// Close disconnects from the broker, allowing in-flight work a short grace
// period.
func (c *Client) Close() {
	if c.cli != nil && c.cli.IsConnected() {
		c.cli.Disconnect(disconnectQuiesceMs)
	}
	c.connected.Store(false)
}
