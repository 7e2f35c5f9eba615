package radio

import (
	"fmt"
	"log"
	"time"

	"github.com/sweeney/vintage-radio/internal/gpio"
	"github.com/sweeney/vintage-radio/internal/lms"
	"github.com/sweeney/vintage-radio/internal/logic"
)

// Radio is the device state machine. Not safe for concurrent use: it is
// driven from the poll loop only.
type Radio struct {
	out    gpio.Writer
	player lms.Client
	table  logic.DecodeTable
	prefix string
	now    func() time.Time

	playerID string
	state    State
	preset   int
	counts   EventCounts
}

// New creates a radio in the OFF state. Connect must succeed before Step.
func New(cfg Config, out gpio.Writer, player lms.Client) *Radio {
	table := cfg.Table
	if table == nil {
		table = logic.DefaultDecodeTable
	}
	prefix := cfg.PresetPrefix
	if prefix == "" {
		prefix = DefaultPresetPrefix
	}
	return &Radio{
		out:    out,
		player: player,
		table:  table.Clone(),
		prefix: prefix,
		now:    time.Now,
		state:  StateOff,
	}
}

// SetClock replaces the event timestamp source. Used by tests.
func (r *Radio) SetClock(now func() time.Time) {
	r.now = now
}

// Connect resolves the player handle and powers the player off.
// Exactly one player must match playerID; otherwise the radio enters
// the ERROR state and no cleanup is attempted.
func (r *Radio) Connect(playerID string) ([]Event, error) {
	if r.state == StateError {
		return nil, ErrFailed
	}

	log.Printf("searching for playerid=%s", playerID)
	players, err := r.player.Players()
	if err != nil {
		return r.fail(fmt.Errorf("list players: %w", err))
	}

	var matches []lms.Player
	for _, p := range players {
		if samePlayer(p.PlayerID, playerID) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return r.fail(fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID))
	case 1:
	default:
		return r.fail(fmt.Errorf("%w: %s (%d matches)", ErrAmbiguousPlayer, playerID, len(matches)))
	}

	r.playerID = matches[0].PlayerID
	if err := r.player.SetPower(r.playerID, false); err != nil {
		return nil, fmt.Errorf("power off player: %w", err)
	}
	log.Printf("player %s (%s) turned off", r.playerID, matches[0].Name)
	return nil, nil
}

func (r *Radio) fail(err error) ([]Event, error) {
	r.state = StateError
	return []Event{{
		Timestamp: r.now(),
		Type:      EventError,
		State:     StateError,
		Preset:    logic.NoPreset,
		Reason:    err.Error(),
	}}, err
}

// Fail blinks the dial light until done is closed. The radio stays in the
// ERROR state; there is no way back.
func (r *Radio) Fail(done <-chan struct{}) error {
	r.state = StateError
	log.Printf("radio initialization failed, blinking %v", gpio.DialLight)
	return r.out.Blink(gpio.DialLight, done)
}

// Step applies the edges between two consecutive control samples.
// Remote and GPIO errors are returned as-is; the caller decides whether to stop.
func (r *Radio) Step(prev, cur logic.Controls) ([]Event, error) {
	if r.state == StateError {
		return nil, ErrFailed
	}

	edges := logic.Diff(prev, cur)
	switch {
	case logic.PoweredOn(prev, cur):
		log.Printf("switch on detected")
		return r.powerOn(r.table.Decode(cur.Rotary))
	case logic.PoweredOff(prev, cur):
		log.Printf("switch off detected")
		return r.powerOff()
	case edges.Rotary && r.state == StateOn:
		return r.selectPreset(r.table.Decode(cur.Rotary))
	}
	return nil, nil
}

// powerOn asserts the outputs before any remote call so the amp never runs
// without the dial lit; the player must be on before its playlist is loaded.
func (r *Radio) powerOn(preset int) ([]Event, error) {
	if err := r.out.Write(gpio.DialLight, true); err != nil {
		return nil, err
	}
	if err := r.out.Write(gpio.AmpRelay, true); err != nil {
		return nil, err
	}
	if err := r.player.SetPower(r.playerID, true); err != nil {
		return nil, fmt.Errorf("power on player: %w", err)
	}

	r.state = StateOn
	r.preset = preset
	r.counts.PowerOn++
	events := []Event{r.event(EventPowerOn)}

	if err := r.reconcile(preset); err != nil {
		return events, err
	}
	return events, nil
}

// powerOff is the reverse of powerOn: the amp is muted before the light goes out.
func (r *Radio) powerOff() ([]Event, error) {
	if err := r.player.SetPower(r.playerID, false); err != nil {
		return nil, fmt.Errorf("power off player: %w", err)
	}
	if err := r.out.Write(gpio.AmpRelay, false); err != nil {
		return nil, err
	}
	if err := r.out.Write(gpio.DialLight, false); err != nil {
		return nil, err
	}

	r.state = StateOff
	r.preset = logic.NoPreset
	r.counts.PowerOff++
	return []Event{r.event(EventPowerOff)}, nil
}

func (r *Radio) selectPreset(preset int) ([]Event, error) {
	log.Printf("rotary changed: preset %d -> %d", r.preset, preset)
	r.preset = preset
	r.counts.Preset++
	events := []Event{r.event(EventPreset)}

	if err := r.reconcile(preset); err != nil {
		return events, err
	}
	return events, nil
}

// reconcile loads the preset and makes sure it plays. The server only starts
// playback reliably from stop, hence stop before play.
func (r *Radio) reconcile(preset int) error {
	if preset == logic.NoPreset {
		log.Printf("no preset selected, player left idle")
		return nil
	}

	item := PresetName(r.prefix, preset)
	if err := r.player.ClearPlaylist(r.playerID); err != nil {
		return fmt.Errorf("clear playlist: %w", err)
	}
	if err := r.player.AddToPlaylist(r.playerID, item); err != nil {
		return fmt.Errorf("add %s: %w", item, err)
	}

	status, err := r.player.Status(r.playerID)
	if err != nil {
		return fmt.Errorf("player status: %w", err)
	}
	if status.Playing() || status.PlaylistTracks < 1 {
		log.Printf("loaded %s: mode=%s tracks=%d", item, status.Mode, status.PlaylistTracks)
		return nil
	}

	if err := r.player.Stop(r.playerID); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	if err := r.player.Play(r.playerID); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	log.Printf("loaded %s: started playback (was %s, tracks=%d)", item, status.Mode, status.PlaylistTracks)
	return nil
}

func (r *Radio) event(t EventType) Event {
	return Event{
		Timestamp: r.now(),
		Type:      t,
		State:     r.state,
		Preset:    r.preset,
		PlayerID:  r.playerID,
	}
}

// State returns the current device state.
func (r *Radio) State() State {
	return r.state
}

// Preset returns the active preset, or logic.NoPreset.
func (r *Radio) Preset() int {
	return r.preset
}

// PlayerID returns the resolved player handle (empty before Connect).
func (r *Radio) PlayerID() string {
	return r.playerID
}

// Counts returns a copy of the event counters.
func (r *Radio) Counts() EventCounts {
	return r.counts
}

// Decode exposes the configured decode table.
func (r *Radio) Decode(bits [logic.RotaryLines]bool) int {
	return r.table.Decode(bits)
}
