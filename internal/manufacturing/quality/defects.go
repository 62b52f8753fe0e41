package quality

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"manufacturer-quality/internal/manufacturing/catalog"
	"manufacturer-quality/internal/manufacturing/sampling"
)

const (
	dueDateLayout    = "2006-01-02"
	unknownTopDefect = "Unknown"
)

// GetModelDefects returns the defect breakdown with RCA and CAPA items for a
// model. An unknown id silently resolves to the first catalog model.
func (s *Service) GetModelDefects(ctx context.Context, modelID string) (*ModelDefectDetail, error) {
	model := catalog.ResolveModel(modelID)
	if model.ModelID != modelID {
		s.logger.Debug("unknown model id, using fallback", map[string]interface{}{
			"modelId":  modelID,
			"fallback": model.ModelID,
		})
	}

	return execute(ctx, s, OpModelDefects, s.config.Latency.ModelDefects, func(smp *sampling.Sampler) *ModelDefectDetail {
		return generateModelDefects(smp, model, s.now())
	})
}

// GetLocationDefects returns per-model defects and CAPA progress at a plant. An
// unknown id silently resolves to the first plant.
func (s *Service) GetLocationDefects(ctx context.Context, locID string) (*LocationDefectDetail, error) {
	plant := catalog.ResolvePlant(locID)
	if plant.LocID != locID {
		s.logger.Debug("unknown location id, using fallback", map[string]interface{}{
			"locId":    locID,
			"fallback": plant.LocID,
		})
	}

	return execute(ctx, s, OpLocationDefects, s.config.Latency.LocationDefects, func(smp *sampling.Sampler) *LocationDefectDetail {
		return generateLocationDefects(smp, plant)
	})
}

func generateModelDefects(smp *sampling.Sampler, model catalog.VehicleModel, now time.Time) *ModelDefectDetail {
	selected := sampling.Items(smp, catalog.DefectCategories(), smp.Int(4, 6))
	regions := catalog.Regions()

	defects := make([]DefectType, 0, len(selected))
	for idx, category := range selected {
		trend := sampling.Item(smp, trends)
		pct := trendPercentage(smp, trend, 5, 30)
		name := sampling.Item(smp, category.Subcategories)
		rca := fillRCATemplate(smp, name)
		capaItems := generateCAPAItems(smp, model.ModelID, idx, now)

		defects = append(defects, DefectType{
			DefectID:        fmt.Sprintf("DEF-%d", idx+1),
			Defect:          name,
			Incidents:       smp.Int(25, 150),
			Regions:         sampling.Items(smp, regions, smp.Int(1, 4)),
			MileageRange:    fmt.Sprintf("%dk - %dk miles", smp.Int(10, 30), smp.Int(50, 100)),
			Trend:           trend,
			TrendPercentage: pct,
			RCA:             rca,
			RCAConfidence:   smp.Float(0.72, 0.96),
			CAPAItems:       capaItems,
			RootCauseDetails: fmt.Sprintf("Contributing factors include %s and %s.",
				sampling.Item(smp, catalog.ContributingFactors()),
				sampling.Item(smp, catalog.SecondaryFactors())),
			ImpactedComponents: sampling.Items(smp, catalog.ImpactedComponents(), smp.Int(2, 4)),
		})
	}

	// regions are collected in generation order, before the sort below
	impacted := unionRegions(defects)
	total := 0
	for _, d := range defects {
		total += d.Incidents
	}

	slices.SortStableFunc(defects, func(a, b DefectType) int {
		return cmp.Compare(b.Incidents, a.Incidents)
	})

	// TopDefectCategory carries a defect name here, not a category.
	top := unknownTopDefect
	if len(defects) > 0 {
		top = defects[0].Defect
	}

	return &ModelDefectDetail{
		ModelID:           model.ModelID,
		ModelName:         model.ModelName,
		TotalDefects:      total,
		RegionsImpacted:   impacted,
		TopDefectCategory: top,
		DefectTypes:       defects,
	}
}

// fillRCATemplate draws every placeholder value, whether or not the chosen
// template uses it, and replaces first occurrences only.
func fillRCATemplate(smp *sampling.Sampler, defectName string) string {
	template := sampling.Item(smp, catalog.RCATemplates())
	replacements := []struct{ placeholder, value string }{
		{catalog.PlaceholderComponent, strings.ToLower(defectName)},
		{catalog.PlaceholderFactor, sampling.Item(smp, catalog.RCAFactors())},
		{catalog.PlaceholderProcess, sampling.Item(smp, catalog.RCAProcesses())},
		{catalog.PlaceholderCondition, sampling.Item(smp, catalog.RCAConditions())},
	}

	rca := template
	for _, r := range replacements {
		rca = strings.Replace(rca, r.placeholder, r.value, 1)
	}
	return rca
}

func generateCAPAItems(smp *sampling.Sampler, modelID string, defectIdx int, now time.Time) []CAPAItem {
	actions := catalog.CAPAActions()
	count := smp.Int(2, 5)
	prefix := capaPrefix(modelID)

	items := make([]CAPAItem, 0, count)
	for capaIdx, action := range actions[:count] {
		item := CAPAItem{
			ID:              fmt.Sprintf("CAPA-%s-%02d%d", prefix, defectIdx+1, capaIdx+1),
			Type:            action.Type,
			Action:          action.Action,
			Status:          sampling.Item(smp, capaStatuses),
			EstimatedImpact: fmt.Sprintf("%d%% reduction in incidents", smp.Int(15, 40)),
			AssignedTo:      sampling.Item(smp, catalog.Assignees()),
			DueDate:         now.UTC().AddDate(0, 0, smp.Int(7, 90)).Format(dueDateLayout),
		}
		if action.Type == catalog.CAPATypeManufacturing {
			confidence := smp.Float(0.75, 0.95)
			item.AIConfidence = &confidence
		}
		items = append(items, item)
	}
	return items
}

func generateLocationDefects(smp *sampling.Sampler, plant catalog.Plant) *LocationDefectDetail {
	present := sampling.Items(smp, catalog.VehicleModels(), smp.Int(3, 5))
	subcategories := catalog.AllSubcategories()

	byModel := make([]LocationModelDefect, 0, len(present))
	total := 0
	for _, m := range present {
		row := LocationModelDefect{
			ModelID:    m.ModelID,
			ModelName:  m.ModelName,
			Incidents:  smp.Int(15, 80),
			KeyDefects: sampling.Items(smp, subcategories, smp.Int(2, 4)),
			Trend:      sampling.Item(smp, trends),
		}
		total += row.Incidents
		byModel = append(byModel, row)
	}

	actions := catalog.CAPAActions()
	rows := smp.Int(4, 8)
	prefix := locationCAPAPrefix(plant.LocID)
	capa := make([]LocationCAPAStatus, 0, rows)
	for i := 0; i < rows; i++ {
		capa = append(capa, LocationCAPAStatus{
			CAPAID: fmt.Sprintf("CAPA-%s-%03d", prefix, i+1),
			Defect: sampling.Item(smp, subcategories),
			Action: sampling.Item(smp, actions).Action,
			Status: sampling.Item(smp, capaStatuses),
			Model:  sampling.Item(smp, present).ModelName,
		})
	}

	return &LocationDefectDetail{
		LocID:          plant.LocID,
		Name:           plant.Name,
		Region:         plant.Region,
		ModelsPresent:  modelNames(present),
		TotalDefects:   total,
		DefectsByModel: byModel,
		CAPAStatus:     capa,
	}
}

func unionRegions(defects []DefectType) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(catalog.Regions()))
	for _, d := range defects {
		for _, r := range d.Regions {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

// capaPrefix is the first three characters of the model id, upper-cased.
func capaPrefix(modelID string) string {
	id := strings.ToUpper(modelID)
	if len(id) > 3 {
		id = id[:3]
	}
	return id
}

// locationCAPAPrefix is the last three characters of the location id, upper-cased.
func locationCAPAPrefix(locID string) string {
	id := strings.ToUpper(locID)
	if len(id) > 3 {
		id = id[len(id)-3:]
	}
	return id
}
