package config

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sweeney/vintage-radio/internal/gpio"
	"github.com/sweeney/vintage-radio/internal/logic"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "radio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// clearEnv hides any SB_* variables set on the host running the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvServer, "")
	t.Setenv(EnvPlayerID, "")
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, DefaultServer, cfg.Server)
	require.Equal(t, 200*time.Millisecond, cfg.Poll)
	require.Equal(t, gpio.DefaultPins, cfg.GPIO.Pins())
	require.Equal(t, gpio.DefaultChip, cfg.GPIO.Chip)
	require.Equal(t, logic.DefaultDecodeTable, cfg.Presets.DecodeTable())
	require.Equal(t, "preset_", cfg.Presets.Prefix)
	require.Empty(t, cfg.MQTT.Broker)
	require.Empty(t, cfg.PlayerID)
}

func TestDefaultTableIsACopy(t *testing.T) {
	cfg := Default()
	cfg.Presets.Table[1] = 4
	require.Equal(t, 1, logic.DefaultDecodeTable[1])
}

func TestLoadNoFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultServer, cfg.Server)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server: 192.168.1.94:9000
player_id: b8:27:eb:12:34:56
poll: 100ms
gpio:
  power: 17
  rotary: [22, 23, 24]
presets:
  prefix: "Radio "
  table:
    1: 1
    3: 2
mqtt:
  broker: tcp://192.168.1.200:1883
  heartbeat: 5m
http:
  addr: ":8080"
`)
	clearEnv(t)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "192.168.1.94:9000", cfg.Server)
	require.Equal(t, "b8:27:eb:12:34:56", cfg.PlayerID)
	require.Equal(t, 100*time.Millisecond, cfg.Poll)
	require.Equal(t, 17, cfg.GPIO.Power)
	require.Equal(t, [3]int{22, 23, 24}, cfg.GPIO.Rotary)
	// Keys absent from the file keep their defaults.
	require.Equal(t, gpio.DefaultPins.Light, cfg.GPIO.Light)
	require.Equal(t, gpio.DefaultChip, cfg.GPIO.Chip)
	require.Equal(t, "vintage-radio", cfg.MQTT.ClientID)

	require.Equal(t, "Radio ", cfg.Presets.Prefix)
	// The file table replaces the default one instead of merging.
	require.Equal(t, logic.DecodeTable{1: 1, 3: 2}, cfg.Presets.DecodeTable())

	require.Equal(t, "tcp://192.168.1.200:1883", cfg.MQTT.Broker)
	require.Equal(t, 5*time.Minute, cfg.MQTT.Heartbeat)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoadFileWithoutTableKeepsDefault(t *testing.T) {
	path := writeConfig(t, "presets:\n  prefix: fav_\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, logic.DefaultDecodeTable, cfg.Presets.DecodeTable())
	require.Equal(t, "fav_", cfg.Presets.Prefix)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server: 10.0.0.1:9000\nplayer_id: aa:aa:aa:aa:aa:aa\n")
	t.Setenv(EnvServer, "192.168.1.94:9000")
	t.Setenv(EnvPlayerID, "bb:bb:bb:bb:bb:bb")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "192.168.1.94:9000", cfg.Server)
	require.Equal(t, "bb:bb:bb:bb:bb:bb", cfg.PlayerID)
}

func TestEnvVarNames(t *testing.T) {
	require.Equal(t, "SB_SERVER", EnvServer)
	require.Equal(t, "SB_PLAYER_ID", EnvPlayerID)
}

func TestResolveKeepsConfiguredPlayer(t *testing.T) {
	cfg := Default()
	cfg.PlayerID = "aa:bb:cc:dd:ee:ff"
	require.NoError(t, Resolve(cfg))
	require.Equal(t, "aa:bb:cc:dd:ee:ff", cfg.PlayerID)
}

func TestFirstMAC(t *testing.T) {
	mac := func(s string) net.HardwareAddr {
		hw, err := net.ParseMAC(s)
		require.NoError(t, err)
		return hw
	}

	ifaces := []net.Interface{
		{Name: "lo", Flags: net.FlagUp | net.FlagLoopback},
		{Name: "eth0", Flags: 0, HardwareAddr: mac("00:11:22:33:44:55")},
		{Name: "tun0", Flags: net.FlagUp},
		{Name: "wlan0", Flags: net.FlagUp, HardwareAddr: mac("b8:27:eb:12:34:56")},
	}

	got, err := firstMAC(ifaces)
	require.NoError(t, err)
	require.Equal(t, "b8:27:eb:12:34:56", got)

	_, err = firstMAC(ifaces[:3])
	require.Error(t, err)
}
