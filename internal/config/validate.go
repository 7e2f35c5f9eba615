package config

import (
	"fmt"

	"github.com/sweeney/vintage-radio/internal/logic"
	"github.com/sweeney/vintage-radio/internal/radio"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg.Server == "" {
		return fmt.Errorf("server must be set")
	}
	if cfg.PlayerID == "" {
		return fmt.Errorf("player_id must be set")
	}
	if cfg.Poll <= 0 {
		return fmt.Errorf("poll must be positive, got %v", cfg.Poll)
	}
	if cfg.RPCTimeout < 0 {
		return fmt.Errorf("rpc_timeout must not be negative, got %v", cfg.RPCTimeout)
	}
	if cfg.MQTT.Heartbeat < 0 {
		return fmt.Errorf("mqtt.heartbeat must not be negative, got %v", cfg.MQTT.Heartbeat)
	}
	if cfg.MQTT.Broker != "" && cfg.MQTT.ClientID == "" {
		return fmt.Errorf("mqtt.client_id must be set when a broker is configured")
	}
	if cfg.GPIO.Chip == "" {
		return fmt.Errorf("gpio.chip must be set")
	}
	if err := cfg.GPIO.Pins().Validate(); err != nil {
		return fmt.Errorf("gpio: %w", err)
	}
	if err := logic.DecodeTable(cfg.Presets.Table).Validate(radio.MaxPresets); err != nil {
		return fmt.Errorf("presets: %w", err)
	}
	return nil
}
