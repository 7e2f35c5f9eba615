package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Default()
	cfg.PlayerID = "b8:27:eb:12:34:56"
	return cfg
}

func TestValidateDefaults(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no server", func(c *Config) { c.Server = "" }},
		{"no player", func(c *Config) { c.PlayerID = "" }},
		{"zero poll", func(c *Config) { c.Poll = 0 }},
		{"negative timeout", func(c *Config) { c.RPCTimeout = -time.Second }},
		{"negative heartbeat", func(c *Config) { c.MQTT.Heartbeat = -time.Second }},
		{"broker without client id", func(c *Config) { c.MQTT.Broker = "tcp://b:1883"; c.MQTT.ClientID = "" }},
		{"no chip", func(c *Config) { c.GPIO.Chip = "" }},
		{"duplicate pin", func(c *Config) { c.GPIO.Light = c.GPIO.Amp }},
		{"empty table", func(c *Config) { c.Presets.Table = map[int]int{} }},
		{"pattern out of range", func(c *Config) { c.Presets.Table = map[int]int{9: 1} }},
		{"preset out of range", func(c *Config) { c.Presets.Table = map[int]int{1: 0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			require.Error(t, Validate(cfg))
		})
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	cfg := validConfig()
	before := *cfg
	require.NoError(t, Validate(cfg))
	require.Equal(t, before, *cfg)
}
