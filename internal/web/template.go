package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/vintage-radio/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": formatUptime,
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Vintage Radio</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ON { color: green; font-weight: bold; }
.OFF { color: #888; }
.ERROR, .UNKNOWN { color: red; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Vintage Radio</h1>

<h2>State</h2>
<table>
<tr><th>Radio</th><td id="state" class="{{stateOrUnknown (printf "%s" .State)}}">{{stateOrUnknown (printf "%s" .State)}}</td></tr>
<tr><th>Preset</th><td id="preset">{{if .Preset}}{{.Preset}}{{else}}none{{end}}</td></tr>
<tr><th>Power switch</th><td>{{onOff .Controls.Power}}</td></tr>
<tr><th>Rotary</th><td>{{.Controls.RotaryValue}}</td></tr>
</table>

<h2>Player</h2>
<table>
<tr><th>Server</th><td>{{.Config.Server}}</td></tr>
<tr><th>Player</th><td>{{if .PlayerID}}{{.PlayerID}}{{else}}{{.Config.PlayerID}} (not resolved){{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Power on</th><td>{{.Counts.PowerOn}}</td></tr>
<tr><th>Power off</th><td>{{.Counts.PowerOff}}</td></tr>
<tr><th>Preset changes</th><td>{{.Counts.Preset}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

// formatUptime renders d as "2d 03:04:05", dropping the day part under 24h.
func formatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	days, secs := secs/86400, secs%86400
	clock := fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	if days > 0 {
		return fmt.Sprintf("%dd %s", days, clock)
	}
	return clock
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
