// Package lms provides a client for the Logitech Media Server control API
// with abstraction for testing.
package lms

import "fmt"

// Transport modes reported by the server.
const (
	ModePlay  = "play"
	ModeStop  = "stop"
	ModePause = "pause"
)

// Client is the subset of the LMS control API the radio needs.
// Every call blocks until the server answers.
type Client interface {
	// Players returns the players known to the server.
	Players() ([]Player, error)

	// SetPower turns a player on or off. Idempotent on the server side.
	SetPower(playerID string, on bool) error

	// ClearPlaylist empties the player's current playlist.
	ClearPlaylist(playerID string) error

	// AddToPlaylist appends a named item (favorite, playlist or URL).
	AddToPlaylist(playerID, item string) error

	// Status returns the player's transport mode and playlist length.
	Status(playerID string) (Status, error)

	// Stop stops playback.
	Stop(playerID string) error

	// Play starts playback.
	Play(playerID string) error
}

// Player is one entry of the server's player list.
type Player struct {
	PlayerID  string `json:"playerid"`
	Name      string `json:"name"`
	Model     string `json:"model"`
	IP        string `json:"ip"`
	Connected int    `json:"connected"`
}

// Status is the part of a player status the radio reads.
type Status struct {
	Mode           string `json:"mode"`
	PlaylistTracks int    `json:"playlist_tracks"`
	Power          int    `json:"power"`
}

// Playing reports whether the player is in play mode.
func (s Status) Playing() bool {
	return s.Mode == ModePlay
}

// RPCError is returned when the server answers with an HTTP or JSON-RPC error.
type RPCError struct {
	Command    string
	StatusCode int
	Message    string
}

func (e *RPCError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("lms %s: http %d: %s", e.Command, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("lms %s: %s", e.Command, e.Message)
}
