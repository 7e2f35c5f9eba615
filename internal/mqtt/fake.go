package mqtt

import (
	"github.com/sweeney/vintage-radio/internal/radio"
)

// Message is a payload as it would have gone out on the wire.
type Message struct {
	Topic    string
	Payload  []byte
	Retained bool
}

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// Events contains all radio events that were published.
	Events []radio.Event

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// Messages contains every formatted payload in publish order, both topics.
	Messages []Message

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the radio event.
func (f *FakePublisher) Publish(event radio.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Messages = append(f.Messages, Message{Topic: TopicEvents, Payload: payload})
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.Messages = append(f.Messages, Message{Topic: TopicSystem, Payload: payload, Retained: event.Retained})
	return nil
}

// EventTypes returns the types of the published radio events in order.
func (f *FakePublisher) EventTypes() []radio.EventType {
	out := make([]radio.EventType, len(f.Events))
	for i, e := range f.Events {
		out[i] = e.Type
	}
	return out
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Events = nil
	f.SystemEvents = nil
	f.Messages = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
