package quality

import (
	"context"

	"manufacturer-quality/internal/manufacturing/catalog"
	"manufacturer-quality/internal/manufacturing/sampling"
)

// ListModels returns one summary per catalog model, in catalog order.
func (s *Service) ListModels(ctx context.Context, _ *ModelsFilter) ([]ModelSummary, error) {
	return execute(ctx, s, OpListModels, s.config.Latency.Models, generateModelSummaries)
}

// ListLocations returns one summary per plant, in catalog order.
func (s *Service) ListLocations(ctx context.Context, _ *LocationsFilter) ([]LocationSummary, error) {
	return execute(ctx, s, OpListLocations, s.config.Latency.Locations, generateLocationSummaries)
}

func generateModelSummaries(smp *sampling.Sampler) []ModelSummary {
	categories := catalog.DefectCategories()
	regions := catalog.Regions()
	models := catalog.VehicleModels()

	out := make([]ModelSummary, 0, len(models))
	for _, m := range models {
		trend := sampling.Item(smp, trends)
		out = append(out, ModelSummary{
			ModelID:           m.ModelID,
			ModelName:         m.ModelName,
			Trend:             trend,
			TrendPercentage:   trendPercentage(smp, trend, 3, 25),
			TotalDefects:      smp.Int(80, 350),
			OpenCAPA:          smp.Int(5, 25),
			ClosedCAPA:        smp.Int(15, 60),
			TopDefectCategory: sampling.Item(smp, categories).Category,
			AffectedRegions:   sampling.Items(smp, regions, smp.Int(2, 4)),
		})
	}
	return out
}

func generateLocationSummaries(smp *sampling.Sampler) []LocationSummary {
	categories := catalog.DefectCategories()
	models := catalog.VehicleModels()
	plants := catalog.Plants()

	out := make([]LocationSummary, 0, len(plants))
	for _, p := range plants {
		dominant := sampling.Items(smp, models, smp.Int(2, 4))
		loc := LocationSummary{
			LocID:             p.LocID,
			Name:              p.Name,
			Region:            p.Region,
			DominantModels:    modelNames(dominant),
			DefectCount:       smp.Int(50, 200),
			TopDefectCategory: sampling.Item(smp, categories).Category,
			OpenCAPACount:     smp.Int(3, 15),
			Trend:             sampling.Item(smp, trends),
		}
		loc.TrendPercentage = trendPercentage(smp, loc.Trend, 3, 25)
		out = append(out, loc)
	}
	return out
}

// trendPercentage is 0 for a stable trend and is not drawn in that case.
func trendPercentage(smp *sampling.Sampler, trend Trend, min, max float64) float64 {
	if trend == TrendStable {
		return 0
	}
	return smp.Float(min, max)
}

func modelNames(models []catalog.VehicleModel) []string {
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.ModelName)
	}
	return names
}
