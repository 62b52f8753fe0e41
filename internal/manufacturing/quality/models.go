// internal/manufacturing/quality/models.go
package quality

import "manufacturer-quality/internal/manufacturing/catalog"

type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendDecreasing Trend = "DECREASING"
	TrendStable     Trend = "STABLE"
)

var trends = []Trend{TrendIncreasing, TrendDecreasing, TrendStable}

type CAPAStatus string

const (
	CAPAStatusProposed    CAPAStatus = "PROPOSED"
	CAPAStatusAccepted    CAPAStatus = "ACCEPTED"
	CAPAStatusInProgress  CAPAStatus = "IN_PROGRESS"
	CAPAStatusImplemented CAPAStatus = "IMPLEMENTED"
)

var capaStatuses = []CAPAStatus{CAPAStatusProposed, CAPAStatusAccepted, CAPAStatusInProgress, CAPAStatusImplemented}

type TimeRange string

const (
	TimeRange30Days  TimeRange = "30days"
	TimeRange90Days  TimeRange = "90days"
	TimeRange180Days TimeRange = "180days"
)

// RegionAll is the "no region" choice offered by the dashboard filter.
const RegionAll = "All"

// OverviewFilter and friends are accepted for interface compatibility only;
// generation ignores them.
type OverviewFilter struct {
	TimeRange TimeRange `json:"timeRange,omitempty"`
	Region    string    `json:"region,omitempty"`
}

type ModelsFilter struct {
	TimeRange TimeRange `json:"timeRange,omitempty"`
	Region    string    `json:"region,omitempty"`
}

type LocationsFilter struct {
	Region string `json:"region,omitempty"`
}

type RisingDefectModel struct {
	ModelID            string  `json:"modelId"`
	ModelName          string  `json:"modelName"`
	Trend              Trend   `json:"trend"`
	IncreasePercentage float64 `json:"increasePercentage"`
	TopDefect          string  `json:"topDefect"`
}

type DefectCategoryCount struct {
	Category       string `json:"category"`
	Incidents      int    `json:"incidents"`
	AffectedModels int    `json:"affectedModels"`
}

type CAPATally struct {
	Proposed    int `json:"proposed"`
	Accepted    int `json:"accepted"`
	InProgress  int `json:"inProgress"`
	Implemented int `json:"implemented"`
}

type OverviewSnapshot struct {
	Period                  string                `json:"period"`
	ModelsWithRisingDefects []RisingDefectModel   `json:"modelsWithRisingDefects"`
	TopDefectCategories     []DefectCategoryCount `json:"topDefectCategories"`
	CAPAStatus              CAPATally             `json:"capaStatus"`
	TotalDefects            int                   `json:"totalDefects"`
	ResolvedThisMonth       int                   `json:"resolvedThisMonth"`
	AvgResolutionTime       float64               `json:"avgResolutionTime"` // days
}

type ModelSummary struct {
	ModelID           string   `json:"modelId"`
	ModelName         string   `json:"modelName"`
	TotalDefects      int      `json:"totalDefects"`
	OpenCAPA          int      `json:"openCAPA"`
	ClosedCAPA        int      `json:"closedCAPA"`
	Trend             Trend    `json:"trend"`
	TrendPercentage   float64  `json:"trendPercentage"`
	TopDefectCategory string   `json:"topDefectCategory"`
	AffectedRegions   []string `json:"affectedRegions"`
}

type CAPAItem struct {
	ID              string           `json:"id"`
	Type            catalog.CAPAType `json:"type"`
	Action          string           `json:"action"`
	Status          CAPAStatus       `json:"status"`
	EstimatedImpact string           `json:"estimatedImpact,omitempty"`
	AssignedTo      string           `json:"assignedTo,omitempty"`
	DueDate         string           `json:"dueDate,omitempty"`
	AIConfidence    *float64         `json:"aiConfidence,omitempty"`
}

type DefectType struct {
	DefectID           string     `json:"defectId"`
	Defect             string     `json:"defect"`
	Incidents          int        `json:"incidents"`
	Regions            []string   `json:"regions"`
	MileageRange       string     `json:"mileageRange,omitempty"`
	Trend              Trend      `json:"trend"`
	TrendPercentage    float64    `json:"trendPercentage"`
	RCA                string     `json:"rca"`
	RCAConfidence      float64    `json:"rcaConfidence"`
	CAPAItems          []CAPAItem `json:"capaItems"`
	RootCauseDetails   string     `json:"rootCauseDetails,omitempty"`
	ImpactedComponents []string   `json:"impactedComponents,omitempty"`
}

// ModelDefectDetail.TopDefectCategory holds the name of the highest-incident
// defect, not a category name. Consumers depend on that.
type ModelDefectDetail struct {
	ModelID           string       `json:"modelId"`
	ModelName         string       `json:"modelName"`
	TotalDefects      int          `json:"totalDefects"`
	RegionsImpacted   []string     `json:"regionsImpacted"`
	TopDefectCategory string       `json:"topDefectCategory"`
	DefectTypes       []DefectType `json:"defectTypes"`
}

type LocationSummary struct {
	LocID             string   `json:"locId"`
	Name              string   `json:"name"`
	Region            string   `json:"region"`
	DominantModels    []string `json:"dominantModels"`
	DefectCount       int      `json:"defectCount"`
	TopDefectCategory string   `json:"topDefectCategory"`
	OpenCAPACount     int      `json:"openCAPACount"`
	Trend             Trend    `json:"trend"`
	TrendPercentage   float64  `json:"trendPercentage"`
}

type LocationModelDefect struct {
	ModelID    string   `json:"modelId"`
	ModelName  string   `json:"modelName"`
	Incidents  int      `json:"incidents"`
	KeyDefects []string `json:"keyDefects"`
	Trend      Trend    `json:"trend"`
}

type LocationCAPAStatus struct {
	CAPAID string     `json:"capaId"`
	Defect string     `json:"defect"`
	Action string     `json:"action"`
	Status CAPAStatus `json:"status"`
	Model  string     `json:"model"`
}

type LocationDefectDetail struct {
	LocID          string                `json:"locId"`
	Name           string                `json:"name"`
	Region         string                `json:"region"`
	ModelsPresent  []string              `json:"modelsPresent"`
	TotalDefects   int                   `json:"totalDefects"`
	DefectsByModel []LocationModelDefect `json:"defectsByModel"`
	CAPAStatus     []LocationCAPAStatus  `json:"capaStatus"`
}

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role      ChatRole `json:"role"`
	Text      string   `json:"text"`
	Timestamp string   `json:"timestamp"`
}

type ChatContext struct {
	TimeRange TimeRange `json:"timeRange,omitempty"`
	Region    string    `json:"region,omitempty"`
	ModelID   string    `json:"modelId,omitempty"`
	LocID     string    `json:"locId,omitempty"`
}

// ChatRequest.ConversationHistory is accepted but never changes the reply.
type ChatRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []ChatMessage `json:"conversationHistory,omitempty"`
	Context             *ChatContext  `json:"context,omitempty"`
}

type ChatResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
