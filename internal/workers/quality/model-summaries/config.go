// internal/workers/quality/model-summaries/config.go
package modelsummaries

import "time"

type Config struct {
	Timeout time.Duration
	// MaxResults caps the rows returned after search; 0 returns all of them.
	MaxResults int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
