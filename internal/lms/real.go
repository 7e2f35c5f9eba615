package lms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// rpcPath is the JSON-RPC endpoint of the LMS web server.
const rpcPath = "/jsonrpc.js"

// maxPlayers bounds the discovery query.
const maxPlayers = 100

// RealClient talks to an LMS server over JSON-RPC.
type RealClient struct {
	httpClient *http.Client
	url        string
	nextID     int
}

// NewRealClient creates a client for the server at addr ("host:port" or a
// full http URL). A zero timeout waits for the server indefinitely.
func NewRealClient(addr string, timeout time.Duration) *RealClient {
	base := addr
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &RealClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        strings.TrimSuffix(base, "/") + rpcPath,
	}
}

type rpcRequest struct {
	ID     int           `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcErrorBody   `json:"error"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Request sends one slim.request command and returns the raw result object.
// An empty playerID addresses the server itself.
func (c *RealClient) Request(playerID string, command ...string) (json.RawMessage, error) {
	name := strings.Join(command, " ")
	c.nextID++

	body, err := json.Marshal(rpcRequest{
		ID:     c.nextID,
		Method: "slim.request",
		Params: []interface{}{playerID, command},
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lms %s: %w", name, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lms %s: read body: %w", name, err)
	}

	if resp.StatusCode >= 400 {
		return nil, &RPCError{Command: name, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(payload))}
	}

	var r rpcResponse
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("lms %s: decode response: %w", name, err)
	}
	if r.Error != nil {
		return nil, &RPCError{Command: name, Message: r.Error.Message}
	}
	return r.Result, nil
}

// Players lists the players connected to the server.
func (c *RealClient) Players() ([]Player, error) {
	raw, err := c.Request("", "players", "0", fmt.Sprint(maxPlayers))
	if err != nil {
		return nil, err
	}
	var result struct {
		Count   int      `json:"count"`
		Players []Player `json:"players_loop"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("decode players: %w", err)
		}
	}
	return result.Players, nil
}

// SetPower turns the player on or off.
func (c *RealClient) SetPower(playerID string, on bool) error {
	state := "0"
	if on {
		state = "1"
	}
	_, err := c.Request(playerID, "power", state)
	return err
}

// ClearPlaylist empties the current playlist.
func (c *RealClient) ClearPlaylist(playerID string) error {
	_, err := c.Request(playerID, "playlist", "clear")
	return err
}

// AddToPlaylist appends item to the current playlist.
func (c *RealClient) AddToPlaylist(playerID, item string) error {
	_, err := c.Request(playerID, "playlist", "add", item)
	return err
}

// Status returns the transport mode and playlist length.
func (c *RealClient) Status(playerID string) (Status, error) {
	raw, err := c.Request(playerID, "status", "-", "1")
	if err != nil {
		return Status{}, err
	}
	var s Status
	if err := json.Unmarshal(raw, &s); err != nil {
		return Status{}, fmt.Errorf("decode status: %w", err)
	}
	return s, nil
}

// Stop stops playback.
func (c *RealClient) Stop(playerID string) error {
	_, err := c.Request(playerID, "stop")
	return err
}

// Play starts playback.
func (c *RealClient) Play(playerID string) error {
	_, err := c.Request(playerID, "play")
	return err
}
