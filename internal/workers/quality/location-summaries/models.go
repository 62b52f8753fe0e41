// internal/workers/quality/location-summaries/models.go
package locationsummaries

import "manufacturer-quality/internal/manufacturing/quality"

type Input struct {
	Region string `json:"region,omitempty"`
	Search string `json:"search,omitempty"`
}

type Output struct {
	Locations []quality.LocationSummary `json:"locations"`
}
