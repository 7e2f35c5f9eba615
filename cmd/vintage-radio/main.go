// Command vintage-radio drives a vintage radio converted into a Logitech Media
// Server player: it polls the power switch and rotary selector, switches the
// dial light and amplifier relay, and keeps the player in step.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/sweeney/vintage-radio/internal/config"
	"github.com/sweeney/vintage-radio/internal/gpio"
	"github.com/sweeney/vintage-radio/internal/lms"
	"github.com/sweeney/vintage-radio/internal/logic"
	"github.com/sweeney/vintage-radio/internal/mqtt"
	"github.com/sweeney/vintage-radio/internal/radio"
	"github.com/sweeney/vintage-radio/internal/status"
	"github.com/sweeney/vintage-radio/internal/web"
)

func main() {
	fs, opts := newFlagSet()
	fs.Parse(os.Args[1:])

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	opts.apply(fs, cfg)
	if err := config.Resolve(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("fatal: invalid config: %v", err)
	}

	if err := run(cfg, opts.printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// options holds flag values. Only flags set on the command line override
// the config file and environment.
type options struct {
	configPath string
	printState bool
	server     string
	playerID   string
	rpcTimeout time.Duration
	poll       time.Duration
	broker     string
	clientID   string
	heartbeat  time.Duration
	httpAddr   string
}

func newFlagSet() (*flag.FlagSet, *options) {
	def := config.Default()
	o := &options{}
	fs := flag.NewFlagSet("vintage-radio", flag.ExitOnError)
	fs.StringVarP(&o.configPath, "config", "c", "", "YAML config file")
	fs.BoolVar(&o.printState, "print-state", false, "Print the current control positions and exit")
	fs.StringVar(&o.server, "server", def.Server, "LMS server address host:port (overrides $"+config.EnvServer+")")
	fs.StringVar(&o.playerID, "player", "", "LMS player id (overrides $"+config.EnvPlayerID+", default host MAC)")
	fs.DurationVar(&o.rpcTimeout, "rpc-timeout", 0, "LMS request timeout (0 waits forever)")
	fs.DurationVar(&o.poll, "poll", def.Poll, "Control polling interval")
	fs.StringVar(&o.broker, "broker", "", "MQTT broker address (empty disables MQTT)")
	fs.StringVar(&o.clientID, "client-id", def.MQTT.ClientID, "MQTT client id")
	fs.DurationVar(&o.heartbeat, "heartbeat", def.MQTT.Heartbeat, "Heartbeat interval (0 to disable)")
	fs.StringVar(&o.httpAddr, "http", def.HTTP.Addr, "HTTP status address (empty to disable)")
	return fs, o
}

func (o *options) apply(fs *flag.FlagSet, cfg *config.Config) {
	if fs.Changed("server") {
		cfg.Server = o.server
	}
	if fs.Changed("player") {
		cfg.PlayerID = o.playerID
	}
	if fs.Changed("rpc-timeout") {
		cfg.RPCTimeout = o.rpcTimeout
	}
	if fs.Changed("poll") {
		cfg.Poll = o.poll
	}
	if fs.Changed("broker") {
		cfg.MQTT.Broker = o.broker
	}
	if fs.Changed("client-id") {
		cfg.MQTT.ClientID = o.clientID
	}
	if fs.Changed("heartbeat") {
		cfg.MQTT.Heartbeat = o.heartbeat
	}
	if fs.Changed("http") {
		cfg.HTTP.Addr = o.httpAddr
	}
}

func run(cfg *config.Config, printState bool) error {
	// Initialize GPIO. Outputs come up low: amp and dial light off.
	io, err := gpio.NewRealIO(cfg.GPIO.Chip, cfg.GPIO.Pins())
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer io.Close()

	table := cfg.Presets.DecodeTable()

	// Print state mode
	if printState {
		c, err := io.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Println(formatControls(c, table))
		return nil
	}

	// Initialize MQTT
	var publisher mqtt.Publisher = mqtt.Nop{}
	var mqttStatus mqtt.ConnectionStatus = mqtt.Nop{}
	if cfg.MQTT.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher, mqttStatus = p, p
	}
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:       cfg.Poll.Milliseconds(),
		HeartbeatMs:  cfg.MQTT.Heartbeat.Milliseconds(),
		Server:       cfg.Server,
		PlayerID:     cfg.PlayerID,
		Broker:       cfg.MQTT.Broker,
		HTTPAddr:     cfg.HTTP.Addr,
		PresetPrefix: cfg.Presets.Prefix,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}
	tracker.SetMQTTConnected(mqttStatus.IsConnected())

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	client := lms.NewRealClient(cfg.Server, cfg.RPCTimeout)
	dev := radio.New(radio.Config{Table: table, PresetPrefix: cfg.Presets.Prefix}, io, client)

	events, err := dev.Connect(cfg.PlayerID)
	publishEvents(publisher, events)
	if err != nil {
		if dev.State() == radio.StateError {
			tracker.SetState(radio.StateError)
			log.Printf("error: radio initialization failed: %v", err)
			return blinkUntilSignal(dev, sigCh)
		}
		return fmt.Errorf("connect player: %w", err)
	}
	tracker.Update(dev.State(), dev.Preset(), dev.PlayerID(), logic.Controls{}, dev.Counts())

	log.Printf("started: server=%s player=%s poll=%v broker=%s heartbeat=%v",
		cfg.Server, dev.PlayerID(), cfg.Poll, cfg.MQTT.Broker, cfg.MQTT.Heartbeat)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	return runLoop(io, dev, publisher, mqttStatus, tracker, cfg.MQTT.Heartbeat, time.Now, ticker.C, sigCh)
}

// blinkUntilSignal is the terminal ERROR state: the dial light blinks and
// nothing is polled until the process is told to stop.
func blinkUntilSignal(dev *radio.Radio, sig <-chan os.Signal) error {
	done := make(chan struct{})
	go func() {
		s := <-sig
		log.Printf("received %v, shutting down", s)
		close(done)
	}()
	return dev.Fail(done)
}

// runLoop polls the controls on every tick and feeds consecutive samples to
// the radio. The first sample is compared against switch-off/rest, so a
// radio switched on at boot powers up on the first tick.
func runLoop(reader gpio.Reader, dev *radio.Radio, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	var prev logic.Controls
	hb := newHeartbeat(now(), heartbeat)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			}
			return nil

		case <-tick:
			t := now()
			cur, err := reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			events, err := dev.Step(prev, cur)
			publishEvents(publisher, events)
			if err != nil {
				return fmt.Errorf("radio step: %w", err)
			}
			prev = cur

			if tracker != nil {
				tracker.Update(dev.State(), dev.Preset(), dev.PlayerID(), cur, dev.Counts())
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			if hb.due(t) {
				counts := dev.Counts()
				log.Printf("heartbeat: state=%s preset=%d power_on=%d power_off=%d preset_changes=%d",
					dev.State(), dev.Preset(), counts.PowerOn, counts.PowerOff, counts.Preset)
				hbEvent := mqtt.SystemEvent{Timestamp: t, Event: "HEARTBEAT"}
				if tracker != nil {
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func publishEvents(publisher mqtt.Publisher, events []radio.Event) {
	for _, event := range events {
		log.Printf("event: %s (state=%s preset=%d)", event.Type, event.State, event.Preset)
		if err := publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}
}

// heartbeat fires once per interval. A zero interval disables it.
type heartbeat struct {
	interval time.Duration
	last     time.Time
}

func newHeartbeat(start time.Time, interval time.Duration) *heartbeat {
	return &heartbeat{interval: interval, last: start}
}

func (h *heartbeat) due(now time.Time) bool {
	if h.interval <= 0 || now.Sub(h.last) < h.interval {
		return false
	}
	h.last = now
	return true
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func formatControls(c logic.Controls, table logic.DecodeTable) string {
	preset := "none"
	if p := table.Decode(c.Rotary); p != logic.NoPreset {
		preset = fmt.Sprint(p)
	}
	return fmt.Sprintf("power: %s, rotary: %03b, preset: %s", stateString(c.Power), c.RotaryValue(), preset)
}

func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
