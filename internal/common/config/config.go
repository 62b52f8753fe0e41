// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Server        ServerConfig            `mapstructure:"server"`
	Simulation    SimulationConfig        `mapstructure:"simulation"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Registry      RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// CamundaConfig configures the Zeebe gateway connection. Workers only start
// when Enabled is set.
type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

// SimulationConfig shapes the mock data service.
type SimulationConfig struct {
	// LatencyScale multiplies the built-in per-operation delays; 0 turns them off.
	LatencyScale float64 `mapstructure:"latency_scale"`
	// Seed makes every response reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// RegistryConfig points at an external activity registry. The embedded one is
// used when Path is empty.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return GetDuration(s.ReadTimeout)
}

func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return GetDuration(s.WriteTimeout)
}

func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return GetDuration(s.ShutdownTimeout)
}
