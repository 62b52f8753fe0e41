// internal/workers/quality/model-defects/models.go
package modeldefects

import "manufacturer-quality/internal/manufacturing/quality"

type Input struct {
	ModelID string `json:"modelId"`
}

type Output struct {
	ModelDefects *quality.ModelDefectDetail `json:"modelDefects"`
}
