// Package config loads the daemon configuration: built-in defaults, an
// optional YAML file, then the SB_SERVER / SB_PLAYER_ID environment.
// Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/vintage-radio/internal/gpio"
	"github.com/sweeney/vintage-radio/internal/logic"
	"github.com/sweeney/vintage-radio/internal/radio"
)

// Environment variables understood by the radio.
const (
	EnvServer   = "SB_SERVER"
	EnvPlayerID = "SB_PLAYER_ID"
)

// DefaultServer is the LMS address used when nothing else is configured.
const DefaultServer = "127.0.0.1:9000"

type Config struct {
	Server     string        `yaml:"server"`
	PlayerID   string        `yaml:"player_id"`
	RPCTimeout time.Duration `yaml:"rpc_timeout"`
	Poll       time.Duration `yaml:"poll"`

	GPIO    GPIOConfig    `yaml:"gpio"`
	Presets PresetsConfig `yaml:"presets"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	HTTP    HTTPConfig    `yaml:"http"`
}

type GPIOConfig struct {
	Chip   string `yaml:"chip"`
	Power  int    `yaml:"power"`
	Rotary [3]int `yaml:"rotary"`
	Light  int    `yaml:"light"`
	Amp    int    `yaml:"amp"`
}

// Pins converts the line offsets for the gpio package.
func (g GPIOConfig) Pins() gpio.Pins {
	return gpio.Pins{Power: g.Power, Rotary: g.Rotary, Light: g.Light, Amp: g.Amp}
}

type PresetsConfig struct {
	Prefix string      `yaml:"prefix"`
	Table  map[int]int `yaml:"table"` // rotary pattern -> preset
}

// DecodeTable returns the configured table.
func (p PresetsConfig) DecodeTable() logic.DecodeTable {
	return logic.DecodeTable(p.Table).Clone()
}

type MQTTConfig struct {
	Broker    string        `yaml:"broker"` // empty disables MQTT
	ClientID  string        `yaml:"client_id"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables the status server
}

// Default returns the stock wiring and behaviour.
// PlayerID is left empty; Resolve fills it from the host.
func Default() *Config {
	pins := gpio.DefaultPins
	return &Config{
		Server: DefaultServer,
		Poll:   200 * time.Millisecond,
		GPIO: GPIOConfig{
			Chip:   gpio.DefaultChip,
			Power:  pins.Power,
			Rotary: pins.Rotary,
			Light:  pins.Light,
			Amp:    pins.Amp,
		},
		Presets: PresetsConfig{
			Prefix: radio.DefaultPresetPrefix,
			Table:  logic.DefaultDecodeTable.Clone(),
		},
		MQTT: MQTTConfig{
			ClientID:  "vintage-radio",
			Heartbeat: 15 * time.Minute,
		},
		HTTP: HTTPConfig{Addr: ":80"},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if any)
// and the environment. Keys absent from the file keep their defaults; a
// presets.table in the file replaces the default table entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		var table struct {
			Presets struct {
				Table map[int]int `yaml:"table"`
			} `yaml:"presets"`
		}
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if table.Presets.Table != nil {
			cfg.Presets.Table = nil
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvServer); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv(EnvPlayerID); v != "" {
		cfg.PlayerID = v
	}
}

// Resolve fills a missing player id with the host MAC address.
func Resolve(cfg *Config) error {
	if cfg.PlayerID != "" {
		return nil
	}
	mac, err := HostMAC()
	if err != nil {
		return fmt.Errorf("default player id: %w", err)
	}
	cfg.PlayerID = mac
	return nil
}

// HostMAC returns the hardware address of the first up, non-loopback
// interface. Squeezelite registers with this address by default.
func HostMAC() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	return firstMAC(ifaces)
}

func firstMAC(ifaces []net.Interface) (string, error) {
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface.HardwareAddr.String(), nil
	}
	return "", fmt.Errorf("no network interface with a hardware address")
}
