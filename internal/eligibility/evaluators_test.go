package eligibility

import (
	"testing"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func transportProfile() models.ClientProfile {
	return models.ClientProfile{
		Sector:                  models.SectorTransport,
		EmployeeCount:           intPtr(15),
		AnnualRevenue:           floatPtr(200_000),
		HasProfessionalVehicles: models.TriYes,
		HeavyVehicleCount:       intPtr(5),
		AnnualFuelLiters:        floatPtr(40_000),
	}
}

func TestEvaluators(t *testing.T) {
	tests := []struct {
		name        string
		kind        models.EvaluatorKind
		profile     models.ClientProfile
		wantScore   int
		wantMissing []string
	}{
		{
			name:      "fuel tax transport fleet",
			kind:      models.EvaluatorFuelTax,
			profile:   transportProfile(),
			wantScore: 100,
		},
		{
			name:      "fuel tax empty profile",
			kind:      models.EvaluatorFuelTax,
			profile:   models.ClientProfile{},
			wantScore: 0,
			wantMissing: []string{
				models.FieldSector,
				models.FieldHasVehicles,
				models.FieldAnnualFuelLiters,
				models.FieldEmployeeCount,
			},
		},
		{
			name: "fuel tax no vehicles",
			kind: models.EvaluatorFuelTax,
			profile: models.ClientProfile{
				Sector:                  models.SectorTransport,
				HasProfessionalVehicles: models.TriNo,
				EmployeeCount:           intPtr(2),
				AnnualFuelLiters:        floatPtr(0),
			},
			wantScore: 40,
		},
		{
			name: "research credit industry",
			kind: models.EvaluatorRnDCredit,
			profile: models.ClientProfile{
				Sector:        models.SectorIndustry,
				DoesRnD:       models.TriYes,
				EmployeeCount: intPtr(10),
			},
			wantScore:   100,
			wantMissing: []string{models.FieldPayrollTotal},
		},
		{
			name: "research credit declined",
			kind: models.EvaluatorRnDCredit,
			profile: models.ClientProfile{
				Sector:        models.SectorTransport,
				DoesRnD:       models.TriNo,
				EmployeeCount: intPtr(10),
			},
			wantScore:   10,
			wantMissing: []string{models.FieldPayrollTotal},
		},
		{
			name: "innovation credit small company",
			kind: models.EvaluatorInnovationCredit,
			profile: models.ClientProfile{
				Sector:        models.SectorServices,
				DoesRnD:       models.TriYes,
				EmployeeCount: intPtr(20),
				AnnualRevenue: floatPtr(2_000_000),
			},
			wantScore: 100,
		},
		{
			name: "property tax owner",
			kind: models.EvaluatorPropertyTax,
			profile: models.ClientProfile{
				Sector:       models.SectorCommerce,
				OwnsPremises: models.TriYes,
			},
			wantScore: 100,
			wantMissing: []string{
				models.FieldPropertyTaxAmount,
				models.FieldPremisesSurfaceArea,
			},
		},
		{
			name: "property tax tenant",
			kind: models.EvaluatorPropertyTax,
			profile: models.ClientProfile{
				OwnsPremises: models.TriNo,
			},
			wantScore: 0,
			wantMissing: []string{
				models.FieldPropertyTaxAmount,
				models.FieldPremisesSurfaceArea,
			},
		},
		{
			name: "payroll charges large headcount",
			kind: models.EvaluatorPayrollCharges,
			profile: models.ClientProfile{
				Sector:        models.SectorTransport,
				EmployeeCount: intPtr(10),
				AnnualRevenue: floatPtr(1_200_000),
			},
			wantScore:   100,
			wantMissing: []string{models.FieldPayrollTotal},
		},
		{
			name: "payroll charges revenue tier",
			kind: models.EvaluatorPayrollCharges,
			profile: models.ClientProfile{
				Sector:        models.SectorServices,
				EmployeeCount: intPtr(5),
				AnnualRevenue: floatPtr(600_000),
			},
			wantScore:   80,
			wantMissing: []string{models.FieldPayrollTotal},
		},
		{
			name: "sector deduction security",
			kind: models.EvaluatorSectorDeduction,
			profile: models.ClientProfile{
				Sector:        models.SectorSecurity,
				EmployeeCount: intPtr(6),
				OwnsPremises:  models.TriYes,
			},
			wantScore:   100,
			wantMissing: []string{models.FieldPayrollTotal},
		},
		{
			name: "sector deduction ineligible sector",
			kind: models.EvaluatorSectorDeduction,
			profile: models.ClientProfile{
				Sector:        models.SectorCommerce,
				EmployeeCount: intPtr(2),
				OwnsPremises:  models.TriNo,
			},
			wantScore:   0,
			wantMissing: []string{models.FieldPayrollTotal},
		},
		{
			name: "agricultural charges",
			kind: models.EvaluatorAgriCharges,
			profile: models.ClientProfile{
				Sector:        models.SectorAgriculture,
				EmployeeCount: intPtr(3),
			},
			wantScore:   100,
			wantMissing: []string{models.FieldPayrollTotal},
		},
		{
			name: "energy contract heavy consumer",
			kind: models.EvaluatorEnergyContract,
			profile: models.ClientProfile{
				Sector:                     models.SectorIndustry,
				OwnsPremises:               models.TriYes,
				AnnualEnergyConsumptionKwh: floatPtr(50_000),
			},
			wantScore: 100,
		},
		{
			name: "energy contract low consumer",
			kind: models.EvaluatorEnergyContract,
			profile: models.ClientProfile{
				Sector:                     models.SectorServices,
				OwnsPremises:               models.TriNo,
				AnnualEnergyConsumptionKwh: floatPtr(5_000),
			},
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := Get(tt.kind)
			if !ok {
				t.Fatalf("no evaluator registered for kind %q", tt.kind)
			}
			got := ev.Evaluate(tt.profile)
			if got.Score != tt.wantScore {
				t.Errorf("expected score %d, got %d (reasons: %v)", tt.wantScore, got.Score, got.Reasons)
			}
			if len(got.MissingFields) != len(tt.wantMissing) {
				t.Fatalf("expected missing %v, got %v", tt.wantMissing, got.MissingFields)
			}
			for i, f := range tt.wantMissing {
				if got.MissingFields[i] != f {
					t.Errorf("missing field %d: expected %q, got %q", i, f, got.MissingFields[i])
				}
			}
		})
	}
}

func TestEvaluatorsEligibleAboveThreshold(t *testing.T) {
	ev, ok := Get(models.EvaluatorFuelTax)
	if !ok {
		t.Fatal("fuel tax evaluator not registered")
	}
	if got := ev.Evaluate(transportProfile()); got.Score < models.EligibilityThreshold {
		t.Errorf("expected fully qualified transport profile to clear the threshold, got %d", got.Score)
	}
}

func TestGetUnknownKind(t *testing.T) {
	if _, ok := Get(models.EvaluatorKind("does-not-exist")); ok {
		t.Error("expected lookup of unregistered kind to fail")
	}
}
