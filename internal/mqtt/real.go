package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/vintage-radio/internal/radio"
)

// outboxLimit bounds the messages kept while the broker is unreachable.
const outboxLimit = 100

// RealPublisher publishes to an actual MQTT broker.
// Messages published while disconnected are queued and sent on reconnect.
type RealPublisher struct {
	client paho.Client
	topic  string

	mu     sync.Mutex
	outbox *outbox
}

// NewRealPublisher creates a publisher for the given broker. The broker does
// not need to be reachable: paho keeps retrying in the background and the
// outbox holds messages until it connects.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	p := &RealPublisher{
		topic:  TopicEvents,
		outbox: newOutbox(outboxLimit),
	}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "OFFLINE",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(func(paho.Client) { p.flush() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		log.Printf("mqtt: broker %s not reachable yet, queueing messages", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// Publish sends a radio event to the MQTT broker.
func (p *RealPublisher) Publish(event radio.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 0 (at-most-once), not retained
	return p.send(pendingMsg{topic: p.topic, payload: payload})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	return p.send(pendingMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) send(msg pendingMsg) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.outbox.add(msg)
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

// flush sends queued messages. Runs on paho's connect goroutine.
func (p *RealPublisher) flush() {
	p.mu.Lock()
	msgs := p.outbox.take()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: connected, sending %d queued messages", len(msgs))
	for _, msg := range msgs {
		token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: queued publish to %s timed out", msg.topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: queued publish to %s: %v", msg.topic, err)
		}
	}
}

// IsConnected reports whether the broker connection is open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
