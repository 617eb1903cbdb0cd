// Package notify delivers pipeline events to external subscribers over
// MQTT. Delivery is fire-and-forget: a failed publish is logged by the
// caller and never rolls back a committed stage.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/gridpool/scr/core/events"
)

// Config defines the connection parameters for the MQTT notifier.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	TimeoutMS   int    `json:"timeout_ms"`
}

// SetDefaults fills unset optional fields.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "scr-platform"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "scr/events"
	}
	if c.TimeoutMS == 0 {
		c.TimeoutMS = 5000
	}
}

type envelope struct {
	ID      string       `json:"id"`
	Event   string       `json:"event"`
	Payload events.Event `json:"payload"`
	Time    time.Time    `json:"time"`
}

// MQTTNotifier publishes pipeline events as JSON messages, one topic per
// event type.
type MQTTNotifier struct {
	client  paho.Client
	cfg     Config
	timeout time.Duration
}

var newMQTTClient = func(opts *paho.ClientOptions) paho.Client {
	return paho.NewClient(opts)
}

// NewMQTTNotifier connects to the broker and returns the notifier.
func NewMQTTNotifier(cfg Config) (*MQTTNotifier, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	client := newMQTTClient(opts)
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &MQTTNotifier{client: client, cfg: cfg, timeout: timeout}, nil
}

// Publish sends the event to its topic. At-most-once from the caller's
// perspective; QoS only affects broker redelivery.
func (n *MQTTNotifier) Publish(event events.Event) error {
	payload, err := json.Marshal(envelope{ID: uuid.NewString(), Event: event.Name(), Payload: event, Time: time.Now()})
	if err != nil {
		return err
	}
	topic := n.cfg.TopicPrefix + "/" + event.Name()
	token := n.client.Publish(topic, n.cfg.QoS, false, payload)
	if !token.WaitTimeout(n.timeout) {
		return fmt.Errorf("publish %s timed out", topic)
	}
	return token.Error()
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() {
	n.client.Disconnect(250)
}
