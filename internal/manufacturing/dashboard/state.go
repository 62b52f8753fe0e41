// internal/manufacturing/dashboard/state.go
package dashboard

import (
	"strings"

	"manufacturer-quality/internal/manufacturing/catalog"
	"manufacturer-quality/internal/manufacturing/quality"
)

// State is the view state of the quality dashboard pages. Filters and search
// apply to already generated rows; they never change what the service returns.
type State struct {
	TimeRange        quality.TimeRange `json:"timeRange"`
	Region           string            `json:"region"`
	SearchQuery      string            `json:"searchQuery,omitempty"`
	SelectedDefectID string            `json:"selectedDefectId,omitempty"`
	ModelID          string            `json:"modelId,omitempty"`
	LocID            string            `json:"locId,omitempty"`
}

func NewState() *State {
	return &State{
		TimeRange: quality.TimeRange30Days,
		Region:    quality.RegionAll,
	}
}

// SetRegion accepts "All" or one of the catalog regions, case-insensitively.
func (s *State) SetRegion(region string) bool {
	if strings.EqualFold(region, quality.RegionAll) {
		s.Region = quality.RegionAll
		return true
	}
	for _, r := range catalog.Regions() {
		if strings.EqualFold(r, region) {
			s.Region = r
			return true
		}
	}
	return false
}

func (s *State) SetTimeRange(tr quality.TimeRange) bool {
	switch tr {
	case quality.TimeRange30Days, quality.TimeRange90Days, quality.TimeRange180Days:
		s.TimeRange = tr
		return true
	}
	return false
}

func (s *State) OverviewParams() *quality.OverviewFilter {
	return &quality.OverviewFilter{TimeRange: s.TimeRange, Region: s.regionParam()}
}

func (s *State) ModelsParams() *quality.ModelsFilter {
	return &quality.ModelsFilter{TimeRange: s.TimeRange, Region: s.regionParam()}
}

func (s *State) LocationsParams() *quality.LocationsFilter {
	return &quality.LocationsFilter{Region: s.regionParam()}
}

// ChatContext describes what the user is looking at so the assistant can
// answer in context.
func (s *State) ChatContext() *quality.ChatContext {
	return &quality.ChatContext{
		TimeRange: s.TimeRange,
		Region:    s.regionParam(),
		ModelID:   s.ModelID,
		LocID:     s.LocID,
	}
}

func (s *State) regionParam() string {
	if s.Region == quality.RegionAll {
		return ""
	}
	return s.Region
}

// FilterModels keeps rows whose model name or top defect category contains the
// search query, ignoring case.
func (s *State) FilterModels(rows []quality.ModelSummary) []quality.ModelSummary {
	return FilterModels(rows, s.SearchQuery)
}

func (s *State) FilterLocations(rows []quality.LocationSummary) []quality.LocationSummary {
	return FilterLocations(rows, s.SearchQuery)
}

// SelectDefect returns the selected defect type, falling back to the first
// one. It returns nil for a detail without defects.
func (s *State) SelectDefect(detail *quality.ModelDefectDetail) *quality.DefectType {
	if detail == nil || len(detail.DefectTypes) == 0 {
		return nil
	}
	for i := range detail.DefectTypes {
		if detail.DefectTypes[i].DefectID == s.SelectedDefectID {
			return &detail.DefectTypes[i]
		}
	}
	return &detail.DefectTypes[0]
}

func FilterModels(rows []quality.ModelSummary, query string) []quality.ModelSummary {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := make([]quality.ModelSummary, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.ModelName), q) || strings.Contains(strings.ToLower(r.TopDefectCategory), q) {
			out = append(out, r)
		}
	}
	return out
}

func FilterLocations(rows []quality.LocationSummary, query string) []quality.LocationSummary {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := make([]quality.LocationSummary, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Region), q) {
			out = append(out, r)
		}
	}
	return out
}
