// internal/workers/quality/model-summaries/models.go
package modelsummaries

import (
	"manufacturer-quality/internal/manufacturing/dashboard"
	"manufacturer-quality/internal/manufacturing/quality"
)

type Input struct {
	TimeRange quality.TimeRange `json:"timeRange,omitempty"`
	Region    string            `json:"region,omitempty"`
	Search    string            `json:"search,omitempty"`
}

// Output.Stats covers every model, not only the rows that matched Search.
type Output struct {
	Models []quality.ModelSummary    `json:"models"`
	Stats  dashboard.ModelListStats `json:"stats"`
}
