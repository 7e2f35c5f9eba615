// Package mqtt provides MQTT publishing of radio events with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/vintage-radio/internal/radio"
)

// TopicEvents is the MQTT topic for radio transitions.
const TopicEvents = "home/radio/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/radio/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a radio event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event radio.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT", "OFFLINE"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Radio RadioPayload `json:"radio"`
}

// RadioPayload contains the radio event details.
type RadioPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	State     string `json:"state"`
	Preset    int    `json:"preset"`
	PlayerID  string `json:"player_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// FormatPayload creates the JSON payload for a radio event.
func FormatPayload(event radio.Event) ([]byte, error) {
	payload := Payload{
		Radio: RadioPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			State:     string(event.State),
			Preset:    event.Preset,
			PlayerID:  event.PlayerID,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// Nop discards everything. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(radio.Event) error       { return nil }
func (Nop) PublishSystem(SystemEvent) error { return nil }
func (Nop) Close() error                    { return nil }
func (Nop) IsConnected() bool               { return false }
