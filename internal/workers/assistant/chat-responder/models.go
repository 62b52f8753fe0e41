// internal/workers/assistant/chat-responder/models.go
package chatresponder

import "manufacturer-quality/internal/manufacturing/quality"

type Input struct {
	quality.ChatRequest
}

type Output struct {
	Reply *quality.ChatResponse `json:"reply"`
}
