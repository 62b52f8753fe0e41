package dashboard

import "manufacturer-quality/internal/manufacturing/quality"

type ModelListStats struct {
	TotalDefects    int `json:"totalDefects"`
	OpenCAPA        int `json:"openCAPA"`
	IncreasingCount int `json:"increasingCount"`
}

type ModelDetailStats struct {
	TotalCAPA        int     `json:"totalCapa"`
	ImplementedCAPA  int     `json:"implementedCapa"`
	AvgRCAConfidence float64 `json:"avgRcaConfidence"`
}

type LocationDetailStats struct {
	OpenCAPA        int `json:"openCapa"`
	ImplementedCAPA int `json:"implementedCapa"`
}

func ModelStats(rows []quality.ModelSummary) ModelListStats {
	var stats ModelListStats
	for _, r := range rows {
		stats.TotalDefects += r.TotalDefects
		stats.OpenCAPA += r.OpenCAPA
		if r.Trend == quality.TrendIncreasing {
			stats.IncreasingCount++
		}
	}
	return stats
}

// ComputeModelDetailStats averages RCA confidence over defect types; it is 0
// when there are none.
func ComputeModelDetailStats(detail *quality.ModelDefectDetail) ModelDetailStats {
	var stats ModelDetailStats
	if detail == nil || len(detail.DefectTypes) == 0 {
		return stats
	}

	var confidence float64
	for _, d := range detail.DefectTypes {
		confidence += d.RCAConfidence
		stats.TotalCAPA += len(d.CAPAItems)
		for _, c := range d.CAPAItems {
			if c.Status == quality.CAPAStatusImplemented {
				stats.ImplementedCAPA++
			}
		}
	}
	stats.AvgRCAConfidence = confidence / float64(len(detail.DefectTypes))
	return stats
}

// ComputeLocationDetailStats counts every CAPA that is not implemented yet as open.
func ComputeLocationDetailStats(detail *quality.LocationDefectDetail) LocationDetailStats {
	var stats LocationDetailStats
	if detail == nil {
		return stats
	}
	for _, c := range detail.CAPAStatus {
		if c.Status == quality.CAPAStatusImplemented {
			stats.ImplementedCAPA++
		} else {
			stats.OpenCAPA++
		}
	}
	return stats
}
