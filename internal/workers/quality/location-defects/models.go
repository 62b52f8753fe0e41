// internal/workers/quality/location-defects/models.go
package locationdefects

import "manufacturer-quality/internal/manufacturing/quality"

type Input struct {
	LocID string `json:"locId"`
}

type Output struct {
	LocationDefects *quality.LocationDefectDetail `json:"locationDefects"`
}
