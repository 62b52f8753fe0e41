// internal/manufacturing/catalog/catalog.go
package catalog

import "strings"

// CAPAType classifies a corrective action as a field fix or a production-line fix.
type CAPAType string

const (
	CAPATypeWorkshop      CAPAType = "WORKSHOP"
	CAPATypeManufacturing CAPAType = "MANUFACTURING"
)

type VehicleModel struct {
	ModelID   string `json:"modelId"`
	ModelName string `json:"modelName"`
}

type Plant struct {
	LocID  string `json:"locId"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

type DefectCategory struct {
	Category      string   `json:"category"`
	Subcategories []string `json:"subcategories"`
}

type CAPAAction struct {
	Type   CAPAType `json:"type"`
	Action string   `json:"action"`
}

// RCA template placeholders. Substitution replaces the first occurrence only.
const (
	PlaceholderComponent = "{component}"
	PlaceholderFactor    = "{factor}"
	PlaceholderProcess   = "{process}"
	PlaceholderCondition = "{condition}"
)

var vehicleModels = []VehicleModel{
	{ModelID: "aurora-ev", ModelName: "Aurora EV"},
	{ModelID: "nexus-sport", ModelName: "Nexus Sport"},
	{ModelID: "terra-suv", ModelName: "Terra SUV"},
	{ModelID: "vega-sedan", ModelName: "Vega Sedan"},
	{ModelID: "titan-truck", ModelName: "Titan Truck"},
	{ModelID: "pulse-compact", ModelName: "Pulse Compact"},
}

var regions = []string{"North", "South", "East", "West", "Central"}

var defectCategories = []DefectCategory{
	{Category: "Brake System", Subcategories: []string{"Brake Pad Wear", "Brake Fluid Leak", "ABS Sensor Failure", "Rotor Warping"}},
	{Category: "Electrical", Subcategories: []string{"Battery Drain", "Wiring Harness", "Sensor Malfunction", "Fuse Issues"}},
	{Category: "Transmission", Subcategories: []string{"Gear Slipping", "Clutch Wear", "Transmission Fluid Leak", "Solenoid Failure"}},
	{Category: "Engine", Subcategories: []string{"Oil Leak", "Overheating", "Timing Belt", "Fuel Injection"}},
	{Category: "Suspension", Subcategories: []string{"Shock Absorber", "Spring Failure", "Control Arm", "Bushing Wear"}},
	{Category: "HVAC", Subcategories: []string{"AC Compressor", "Heater Core", "Blower Motor", "Thermostat"}},
}

var plants = []Plant{
	{LocID: "plant-detroit", Name: "Detroit Assembly Plant", Region: "North"},
	{LocID: "plant-austin", Name: "Austin Manufacturing Hub", Region: "South"},
	{LocID: "plant-california", Name: "California Innovation Center", Region: "West"},
	{LocID: "plant-ohio", Name: "Ohio Production Facility", Region: "Central"},
	{LocID: "plant-georgia", Name: "Georgia Assembly Center", Region: "East"},
	{LocID: "plant-arizona", Name: "Arizona Tech Plant", Region: "West"},
}

var rcaTemplates = []string{
	"Root cause analysis indicates {component} degradation due to {factor}. Manufacturing process variation in {process} step contributed to accelerated wear patterns.",
	"Investigation reveals {factor} causing premature {component} failure. Quality control metrics suggest batch-specific issues during {process} phase.",
	"Failure mode analysis shows {component} stress exceeding design parameters under {condition} conditions. Supplier material variance identified as contributing factor.",
	"Data-driven analysis confirms {factor} as primary failure driver. Correlation found between {condition} environment exposure and {component} degradation rate.",
}

var capaActions = []CAPAAction{
	{Type: CAPATypeWorkshop, Action: "Implement enhanced inspection protocol during routine maintenance"},
	{Type: CAPATypeWorkshop, Action: "Deploy software update to improve component monitoring"},
	{Type: CAPATypeWorkshop, Action: "Train technicians on early warning signs and preventive measures"},
	{Type: CAPATypeManufacturing, Action: "Update manufacturing tolerances for affected components"},
	{Type: CAPATypeManufacturing, Action: "Implement additional quality gate in assembly line"},
	{Type: CAPATypeManufacturing, Action: "Source alternative supplier with improved material specs"},
	{Type: CAPATypeManufacturing, Action: "Redesign component with improved thermal resistance"},
	{Type: CAPATypeManufacturing, Action: "Add automated vision inspection at critical assembly point"},
}

var (
	rcaFactors    = []string{"thermal stress", "material fatigue", "contamination", "vibration exposure"}
	rcaProcesses  = []string{"assembly", "welding", "coating", "testing"}
	rcaConditions = []string{"high temperature", "humid", "corrosive", "high-load"}

	assignees = []string{"Engineering Team A", "Quality Control", "Production Lead", "Supplier Relations"}

	contributingFactors = []string{"supplier variation", "environmental conditions", "design limitations", "process drift"}
	secondaryFactors    = []string{"insufficient testing coverage", "material specification gaps", "assembly sequence sensitivity", "component interaction effects"}

	impactedComponents = []string{"Sensor Module", "Control Unit", "Actuator", "Mounting Bracket", "Wiring Harness", "Fluid Lines"}
)

// The accessors below hand out copies so callers can shuffle or slice freely
// without touching the package tables.

func VehicleModels() []VehicleModel { return clone(vehicleModels) }

func Plants() []Plant { return clone(plants) }

func Regions() []string { return clone(regions) }

func DefectCategories() []DefectCategory {
	out := make([]DefectCategory, len(defectCategories))
	for i, c := range defectCategories {
		out[i] = DefectCategory{Category: c.Category, Subcategories: clone(c.Subcategories)}
	}
	return out
}

// AllSubcategories flattens every category's subcategories in catalog order.
func AllSubcategories() []string {
	var out []string
	for _, c := range defectCategories {
		out = append(out, c.Subcategories...)
	}
	return out
}

func CAPAActions() []CAPAAction { return clone(capaActions) }

func RCATemplates() []string { return clone(rcaTemplates) }

func RCAFactors() []string    { return clone(rcaFactors) }
func RCAProcesses() []string  { return clone(rcaProcesses) }
func RCAConditions() []string { return clone(rcaConditions) }

func Assignees() []string { return clone(assignees) }

func ContributingFactors() []string { return clone(contributingFactors) }
func SecondaryFactors() []string    { return clone(secondaryFactors) }

func ImpactedComponents() []string { return clone(impactedComponents) }

// LookupModel finds a vehicle model by id.
func LookupModel(modelID string) (VehicleModel, bool) {
	for _, m := range vehicleModels {
		if m.ModelID == modelID {
			return m, true
		}
	}
	return VehicleModel{}, false
}

// ResolveModel is LookupModel with the first catalog entry as the fallback.
func ResolveModel(modelID string) VehicleModel {
	if m, ok := LookupModel(modelID); ok {
		return m
	}
	return vehicleModels[0]
}

// LookupPlant finds a plant by location id.
func LookupPlant(locID string) (Plant, bool) {
	for _, p := range plants {
		if p.LocID == locID {
			return p, true
		}
	}
	return Plant{}, false
}

// ResolvePlant is LookupPlant with the first catalog entry as the fallback.
func ResolvePlant(locID string) Plant {
	if p, ok := LookupPlant(locID); ok {
		return p
	}
	return plants[0]
}

// IsRegion reports whether name is one of the fixed regions.
func IsRegion(name string) bool {
	for _, r := range regions {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
