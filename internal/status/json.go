package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	State         string       `json:"state"`
	Preset        int          `json:"preset"`
	PlayerID      string       `json:"player_id"`
	Controls      ControlsJSON `json:"controls"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ControlsJSON is the last sampled position of the physical controls.
type ControlsJSON struct {
	Power  bool `json:"power"`
	Rotary int  `json:"rotary"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	PowerOn  int `json:"power_on"`
	PowerOff int `json:"power_off"`
	Preset   int `json:"preset"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs       int64  `json:"poll_ms"`
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	Server       string `json:"server"`
	PlayerID     string `json:"player_id"`
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
	PresetPrefix string `json:"preset_prefix"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	inner := StatusInner{
		State:         state,
		Preset:        snap.Preset,
		PlayerID:      snap.PlayerID,
		Controls:      ControlsJSON{Power: snap.Controls.Power, Rotary: snap.Controls.RotaryValue()},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			PowerOn:  snap.Counts.PowerOn,
			PowerOff: snap.Counts.PowerOff,
			Preset:   snap.Counts.Preset,
		},
		Config: ConfigJSON{
			PollMs:       snap.Config.PollMs,
			HeartbeatMs:  snap.Config.HeartbeatMs,
			Server:       snap.Config.Server,
			PlayerID:     snap.Config.PlayerID,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
			PresetPrefix: snap.Config.PresetPrefix,
		},
	}

	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
