package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: quality-test
logging:
  format: console
workers:
  get-manufacturing-overview:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "quality-test", cfg.App.Name)
	assert.Equal(t, "quality-test", cfg.Observability.ServiceName)
	assert.False(t, cfg.Camunda.Enabled)
	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeoutDuration())
	assert.Equal(t, 1.0, cfg.Simulation.LatencyScale)
	assert.Equal(t, "info", cfg.Logging.Level)

	w := cfg.Workers["get-manufacturing-overview"]
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)
}

func TestLoadFromFile_ExplicitZeroLatency(t *testing.T) {
	path := writeConfig(t, `
simulation:
  latency_scale: 0
  seed: 42
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Simulation.LatencyScale)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
}

func TestLoadFromFile_ExpandsEnvironment(t *testing.T) {
	t.Setenv("QUALITY_TEST_BROKER", "zeebe:26500")
	path := writeConfig(t, `
camunda:
  enabled: true
  broker_address: ${QUALITY_TEST_BROKER}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	cfg, err := LoadFromFile(writeConfig(t, "server:\n  port: 8081\n"))
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "negative latency", body: "simulation:\n  latency_scale: -1\n"},
		{name: "unknown log format", body: "logging:\n  format: xml\n"},
		{name: "port out of range", body: "server:\n  port: 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWorkerConfigLookups(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"send-manufacturing-chat-message": {Enabled: false, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "send-manufacturing-chat-message"))
	assert.True(t, IsWorkerEnabled(cfg, "list-manufacturing-models"))
	assert.Equal(t, 1000, GetWorkerConfig(cfg, "send-manufacturing-chat-message").Timeout)
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "list-manufacturing-models").Timeout)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
