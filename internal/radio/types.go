// Package radio is the device state machine. It owns the power state and the
// active preset, reacts to control edges, and sequences the outputs and LMS
// calls so the player ends up consistent with the physical controls.
package radio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/vintage-radio/internal/logic"
)

// State is the device state.
type State string

const (
	StateOff   State = "OFF"
	StateOn    State = "ON"
	StateError State = "ERROR"
)

// EventType represents a device transition.
type EventType string

const (
	EventPowerOn  EventType = "POWER_ON"
	EventPowerOff EventType = "POWER_OFF"
	EventPreset   EventType = "PRESET"
	EventError    EventType = "ERROR"
)

// Event represents a transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
	Preset    int // logic.NoPreset when no preset is active
	PlayerID  string
	Reason    string // error events only
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	PowerOn  int
	PowerOff int
	Preset   int
}

// DefaultPresetPrefix is prepended to the preset index to name the playlist item.
const DefaultPresetPrefix = "preset_"

// MaxPresets is the highest preset index a decode table may produce.
const MaxPresets = 8

// Config holds the static radio configuration.
type Config struct {
	// Table maps rotary patterns to presets. Nil means logic.DefaultDecodeTable.
	Table logic.DecodeTable
	// PresetPrefix names playlist items: PresetPrefix + index.
	PresetPrefix string
}

var (
	// ErrPlayerNotFound means no player on the server matched the configured id.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrAmbiguousPlayer means more than one player matched the configured id.
	ErrAmbiguousPlayer = errors.New("player id matches several players")
	// ErrFailed is returned by Step once the radio is in the ERROR state.
	ErrFailed = errors.New("radio is in error state")
)

// PresetName returns the playlist item name for a preset.
func PresetName(prefix string, preset int) string {
	return fmt.Sprintf("%s%d", prefix, preset)
}

// samePlayer compares player ids. LMS ids are MAC addresses whose case
// depends on the client that registered them.
func samePlayer(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
