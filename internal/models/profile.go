// Package models defines the core data structures for the Profitum eligibility engine.
package models

// Sector classifies the client's business activity. Extraction maps free-text
// keywords onto these values; SectorUnknown means no cue was recognized yet.
type Sector string

const (
	SectorTransport   Sector = "transport"
	SectorAgriculture Sector = "agriculture"
	SectorIndustry    Sector = "industry"
	SectorCommerce    Sector = "commerce"
	SectorServices    Sector = "services"
	SectorHospitality Sector = "hospitality"
	SectorSecurity    Sector = "security"
	SectorLiveEvents  Sector = "live-events"
	SectorUnknown     Sector = "unknown"
)

// IsKnown reports whether the sector has been identified.
func (s Sector) IsKnown() bool {
	return s != "" && s != SectorUnknown
}

// TriState represents a boolean fact that may simply not be known yet.
// Extraction only ever moves a field away from TriUnknown when both a topic
// keyword and a polarity cue are present in the same utterance.
type TriState string

const (
	TriYes     TriState = "yes"
	TriNo      TriState = "no"
	TriUnknown TriState = "unknown"
)

// IsKnown reports whether the tri-state value has been determined.
func (t TriState) IsKnown() bool {
	return t == TriYes || t == TriNo
}

// Canonical profile field names. These are the keys used for missing-information
// tracking and for the questionsAsked dedup bookkeeping.
const (
	FieldSector              = "sector"
	FieldAnnualRevenue       = "annualRevenue"
	FieldEmployeeCount       = "employeeCount"
	FieldHasVehicles         = "hasProfessionalVehicles"
	FieldHeavyVehicleCount   = "heavyVehicleCount"
	FieldAnnualFuelLiters    = "annualFuelLiters"
	FieldOwnsPremises        = "ownsPremises"
	FieldPropertyTaxAmount   = "propertyTaxAmount"
	FieldPremisesSurfaceArea = "premisesSurfaceArea"
	FieldDoesRnD             = "doesRnD"
	FieldPayrollTotal        = "payrollTotal"
	FieldAverageGrossSalary  = "averageGrossSalary"
	FieldEnergyConsumption   = "annualEnergyConsumptionKwh"
)

// ClientProfile is a sparse, incrementally built record of a business.
// Every field is independently optional: numeric fields use pointers so that
// zero values are distinguishable from "not yet known", and boolean facts are
// tri-state. A profile is never "complete", only sufficient for a phase
// transition.
type ClientProfile struct {
	Sector                     Sector   `json:"sector,omitempty"`
	EmployeeCount              *int     `json:"employee_count,omitempty"`
	AnnualRevenue              *float64 `json:"annual_revenue,omitempty"`
	HasProfessionalVehicles    TriState `json:"has_professional_vehicles,omitempty"`
	HeavyVehicleCount          *int     `json:"heavy_vehicle_count,omitempty"`
	ConstructionEquipmentCount *int     `json:"construction_equipment_count,omitempty"`
	LightVehicleCount          *int     `json:"light_vehicle_count,omitempty"`
	AnnualFuelLiters           *float64 `json:"annual_fuel_liters,omitempty"`
	OwnsPremises               TriState `json:"owns_premises,omitempty"`
	PropertyTaxAmount          *float64 `json:"property_tax_amount,omitempty"`
	PremisesSurfaceArea        *float64 `json:"premises_surface_area,omitempty"`
	DoesRnD                    TriState `json:"does_rnd,omitempty"`
	PayrollTotal               *float64 `json:"payroll_total,omitempty"`
	AverageGrossSalary         *float64 `json:"average_gross_salary,omitempty"`
	AnnualEnergyConsumptionKwh *float64 `json:"annual_energy_consumption_kwh,omitempty"`
	DeclaredNeeds              []string `json:"declared_needs,omitempty"`
}

// IsEmpty reports whether the profile carries no known field at all.
func (p ClientProfile) IsEmpty() bool {
	return !p.Sector.IsKnown() &&
		p.EmployeeCount == nil &&
		p.AnnualRevenue == nil &&
		!p.HasProfessionalVehicles.IsKnown() &&
		p.HeavyVehicleCount == nil &&
		p.ConstructionEquipmentCount == nil &&
		p.LightVehicleCount == nil &&
		p.AnnualFuelLiters == nil &&
		!p.OwnsPremises.IsKnown() &&
		p.PropertyTaxAmount == nil &&
		p.PremisesSurfaceArea == nil &&
		!p.DoesRnD.IsKnown() &&
		p.PayrollTotal == nil &&
		p.AverageGrossSalary == nil &&
		p.AnnualEnergyConsumptionKwh == nil &&
		len(p.DeclaredNeeds) == 0
}

// KnownCoreFieldCount counts the "core" profiling fields that are known:
// sector, revenue, headcount, plus vehicle/fuel information. The Profiling
// phase exits once enough of these are in hand.
func (p ClientProfile) KnownCoreFieldCount() int {
	count := 0
	if p.Sector.IsKnown() {
		count++
	}
	if p.AnnualRevenue != nil {
		count++
	}
	if p.EmployeeCount != nil {
		count++
	}
	if p.HasProfessionalVehicles.IsKnown() || p.HeavyVehicleCount != nil {
		count++
	}
	if p.AnnualFuelLiters != nil {
		count++
	}
	return count
}

// HasVehicles reports whether the client is known to operate professional
// vehicles, either through an explicit answer or a declared vehicle count.
func (p ClientProfile) HasVehicles() bool {
	if p.HasProfessionalVehicles == TriYes {
		return true
	}
	if p.HeavyVehicleCount != nil && *p.HeavyVehicleCount > 0 {
		return true
	}
	if p.LightVehicleCount != nil && *p.LightVehicleCount > 0 {
		return true
	}
	return false
}

// FieldKnown reports whether the given canonical field name is known in the
// profile. Unrecognized field names report false.
func (p ClientProfile) FieldKnown(field string) bool {
	switch field {
	case FieldSector:
		return p.Sector.IsKnown()
	case FieldAnnualRevenue:
		return p.AnnualRevenue != nil
	case FieldEmployeeCount:
		return p.EmployeeCount != nil
	case FieldHasVehicles:
		return p.HasProfessionalVehicles.IsKnown() || p.HeavyVehicleCount != nil
	case FieldHeavyVehicleCount:
		return p.HeavyVehicleCount != nil
	case FieldAnnualFuelLiters:
		return p.AnnualFuelLiters != nil
	case FieldOwnsPremises:
		return p.OwnsPremises.IsKnown()
	case FieldPropertyTaxAmount:
		return p.PropertyTaxAmount != nil
	case FieldPremisesSurfaceArea:
		return p.PremisesSurfaceArea != nil
	case FieldDoesRnD:
		return p.DoesRnD.IsKnown()
	case FieldPayrollTotal:
		return p.PayrollTotal != nil
	case FieldAverageGrossSalary:
		return p.AverageGrossSalary != nil
	case FieldEnergyConsumption:
		return p.AnnualEnergyConsumptionKwh != nil
	default:
		return false
	}
}
