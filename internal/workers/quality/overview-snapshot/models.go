// internal/workers/quality/overview-snapshot/models.go
package overviewsnapshot

import "manufacturer-quality/internal/manufacturing/quality"

type Input struct {
	TimeRange quality.TimeRange `json:"timeRange,omitempty"`
	Region    string            `json:"region,omitempty"`
}

type Output struct {
	Overview *quality.OverviewSnapshot `json:"overview"`
}
