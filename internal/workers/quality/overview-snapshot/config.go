// internal/workers/quality/overview-snapshot/config.go
package overviewsnapshot

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
