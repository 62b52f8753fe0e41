// internal/workers/assistant/chat-responder/config.go
package chatresponder

import "time"

type Config struct {
	Timeout time.Duration
	// MaxMessageLength rejects longer messages as INVALID_INPUT; 0 disables the check.
	MaxMessageLength int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          15 * time.Second,
		MaxMessageLength: 4000,
	}
}
