package quality

import (
	"cmp"
	"context"
	"slices"

	"manufacturer-quality/internal/manufacturing/catalog"
	"manufacturer-quality/internal/manufacturing/sampling"
)

const (
	overviewPeriod        = "30 days"
	overviewModelCount    = 4
	overviewCategoryCount = 5
)

// GetOverview returns a portfolio snapshot. The filter is accepted but does not
// influence generation.
func (s *Service) GetOverview(ctx context.Context, _ *OverviewFilter) (*OverviewSnapshot, error) {
	return execute(ctx, s, OpOverview, s.config.Latency.Overview, generateOverview)
}

func generateOverview(smp *sampling.Sampler) *OverviewSnapshot {
	categories := catalog.DefectCategories()

	rising := make([]RisingDefectModel, 0, overviewModelCount)
	for _, m := range catalog.VehicleModels()[:overviewModelCount] {
		entry := RisingDefectModel{
			ModelID:            m.ModelID,
			ModelName:          m.ModelName,
			Trend:              sampling.Item(smp, trends),
			IncreasePercentage: smp.Float(5, 35),
			TopDefect:          sampling.Item(smp, categories).Category,
		}
		// the coin is only tossed for non-increasing trends
		if entry.Trend == TrendIncreasing || smp.Chance(0.5) {
			rising = append(rising, entry)
		}
	}

	top := make([]DefectCategoryCount, 0, overviewCategoryCount)
	for _, c := range categories[:overviewCategoryCount] {
		top = append(top, DefectCategoryCount{
			Category:       c.Category,
			Incidents:      smp.Int(120, 450),
			AffectedModels: smp.Int(2, 5),
		})
	}
	slices.SortStableFunc(top, func(a, b DefectCategoryCount) int {
		return cmp.Compare(b.Incidents, a.Incidents)
	})

	return &OverviewSnapshot{
		Period:                  overviewPeriod,
		ModelsWithRisingDefects: rising,
		TopDefectCategories:     top,
		CAPAStatus: CAPATally{
			Proposed:    smp.Int(15, 35),
			Accepted:    smp.Int(20, 40),
			InProgress:  smp.Int(25, 50),
			Implemented: smp.Int(80, 150),
		},
		TotalDefects:      smp.Int(800, 1500),
		ResolvedThisMonth: smp.Int(200, 400),
		AvgResolutionTime: smp.Float(4, 12),
	}
}
