package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
simulation:
  sensors: 7
  duration_minutes: 3
ledger:
  command: ["bash", "./network.sh"]
  chaincode: parking
metrics:
  prometheus_enabled: true
api:
  enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Simulation.Sensors)
	require.Equal(t, 3, cfg.Simulation.DurationMinutes)
	require.Equal(t, 6.0, cfg.Simulation.CycleIntervalSeconds, "defaults applied")
	require.Equal(t, []string{"bash", "./network.sh"}, cfg.Ledger.Command)
	require.Equal(t, 30, cfg.Ledger.TimeoutSeconds)
	require.True(t, cfg.Metrics.PrometheusEnabled)
	require.Equal(t, ":9090", cfg.Metrics.PrometheusAddr)
	require.Equal(t, ":5000", cfg.API.Addr)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"simulation":{"sensors":2}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Simulation.Sensors)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "sensors = 2")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
simulation:
  sensors: 4
`)
	t.Setenv("PS_SIMULATION__SENSORS", "9")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9, cfg.Simulation.Sensors)
}

func TestLoadRejectsInvalidRates(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
simulation:
  arrival_rate: 1.5
`)
	_, err := Load(path)
	require.Error(t, err)
}
