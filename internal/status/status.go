// Package status provides a thread-safe status tracker for the radio daemon.
// It is written by the poll loop and read by HTTP handlers and MQTT heartbeats.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/vintage-radio/internal/logic"
	"github.com/sweeney/vintage-radio/internal/radio"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs       int64
	HeartbeatMs  int64
	Server       string
	PlayerID     string
	Broker       string
	HTTPAddr     string
	PresetPrefix string
}

// Snapshot is a point-in-time view of daemon state.
// It is a copy and stays valid after the lock is released.
type Snapshot struct {
	State         radio.State
	Preset        int
	PlayerID      string
	Controls      logic.Controls
	Counts        radio.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the device state, the last control sample and the event counts.
// Called from runLoop on every tick.
func (t *Tracker) Update(state radio.State, preset int, playerID string, controls logic.Controls, counts radio.EventCounts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Preset = preset
	t.snap.PlayerID = playerID
	t.snap.Controls = controls
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetState records the device state alone, for transitions outside the loop
// such as a failed discovery.
func (t *Tracker) SetState(state radio.State) {
	t.mu.Lock()
	t.snap.State = state
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
