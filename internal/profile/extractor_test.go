package profile

import (
	"testing"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

func TestExtractRichUtterance(t *testing.T) {
	p := Extract("We're in transport, about 15 employees, 200k€ revenue, we have 5 trucks and consume about 40000 liters of diesel a year")

	if p.Sector != models.SectorTransport {
		t.Errorf("expected sector transport, got %q", p.Sector)
	}
	if p.EmployeeCount == nil || *p.EmployeeCount != 15 {
		t.Errorf("expected 15 employees, got %v", p.EmployeeCount)
	}
	if p.AnnualRevenue == nil || *p.AnnualRevenue != 200000 {
		t.Errorf("expected revenue 200000, got %v", p.AnnualRevenue)
	}
	if p.HeavyVehicleCount == nil || *p.HeavyVehicleCount != 5 {
		t.Errorf("expected 5 heavy vehicles, got %v", p.HeavyVehicleCount)
	}
	if p.HasProfessionalVehicles != models.TriYes {
		t.Errorf("expected vehicles yes, got %q", p.HasProfessionalVehicles)
	}
	if p.AnnualFuelLiters == nil || *p.AnnualFuelLiters != 40000 {
		t.Errorf("expected 40000 liters, got %v", p.AnnualFuelLiters)
	}
}

func TestExtractFrenchUtterance(t *testing.T) {
	p := Extract("Nous sommes une entreprise de transport avec 12 salariés, 1,5M€ de chiffre d'affaires et 8 camions")

	if p.Sector != models.SectorTransport {
		t.Errorf("expected sector transport, got %q", p.Sector)
	}
	if p.EmployeeCount == nil || *p.EmployeeCount != 12 {
		t.Errorf("expected 12 employees, got %v", p.EmployeeCount)
	}
	if p.AnnualRevenue == nil || *p.AnnualRevenue != 1_500_000 {
		t.Errorf("expected revenue 1500000, got %v", p.AnnualRevenue)
	}
	if p.HeavyVehicleCount == nil || *p.HeavyVehicleCount != 8 {
		t.Errorf("expected 8 heavy vehicles, got %v", p.HeavyVehicleCount)
	}
}

func TestExtractNegation(t *testing.T) {
	p := Extract("We don't do any research")
	if p.DoesRnD != models.TriNo {
		t.Errorf("expected R&D no, got %q", p.DoesRnD)
	}

	p = Extract("Nous n'avons pas de véhicules professionnels")
	if p.HasProfessionalVehicles != models.TriNo {
		t.Errorf("expected vehicles no, got %q", p.HasProfessionalVehicles)
	}
}

func TestExtractAffirmation(t *testing.T) {
	p := Extract("Oui, nous sommes propriétaires de nos locaux")
	if p.OwnsPremises != models.TriYes {
		t.Errorf("expected premises yes, got %q", p.OwnsPremises)
	}

	p = Extract("Yes, we do research and development on new materials")
	if p.DoesRnD != models.TriYes {
		t.Errorf("expected R&D yes, got %q", p.DoesRnD)
	}
}

func TestExtractTopicWithoutPolarityStaysUnknown(t *testing.T) {
	p := Extract("Que pensez-vous de la recherche en général ?")
	if p.DoesRnD != models.TriUnknown {
		t.Errorf("expected R&D unknown without polarity cue, got %q", p.DoesRnD)
	}
}

func TestExtractGarbage(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"qsdfgh jklm wxcvbn",
		"peut-être, je ne sais pas trop",
	}
	for _, utterance := range tests {
		if p := Extract(utterance); !p.IsEmpty() {
			t.Errorf("expected empty profile for %q, got %+v", utterance, p)
		}
	}
}

func TestExtractMagnitudeSuffixes(t *testing.T) {
	p := Extract("Notre chiffre d'affaires est de 2M€")
	if p.AnnualRevenue == nil || *p.AnnualRevenue != 2_000_000 {
		t.Errorf("expected revenue 2000000, got %v", p.AnnualRevenue)
	}

	// "m2" is a surface unit, not a millions suffix.
	p = Extract("Nos locaux font 800 m2")
	if p.PremisesSurfaceArea == nil || *p.PremisesSurfaceArea != 800 {
		t.Errorf("expected surface 800, got %v", p.PremisesSurfaceArea)
	}
}

func TestExtractMoneyCues(t *testing.T) {
	p := Extract("Notre masse salariale est de 450000 euros et la taxe foncière de 12000 euros")
	if p.PayrollTotal == nil || *p.PayrollTotal != 450000 {
		t.Errorf("expected payroll 450000, got %v", p.PayrollTotal)
	}
	if p.PropertyTaxAmount == nil || *p.PropertyTaxAmount != 12000 {
		t.Errorf("expected property tax 12000, got %v", p.PropertyTaxAmount)
	}
}

func TestExtractEnergy(t *testing.T) {
	p := Extract("Nous consommons environ 50000 kWh par an")
	if p.AnnualEnergyConsumptionKwh == nil || *p.AnnualEnergyConsumptionKwh != 50000 {
		t.Errorf("expected 50000 kWh, got %v", p.AnnualEnergyConsumptionKwh)
	}
}

func TestExtractDeclaredNeeds(t *testing.T) {
	p := Extract("Nous cherchons à réduire nos charges et un financement")
	wantNeeds := map[string]bool{"charge-reduction": true, "financing": true}
	if len(p.DeclaredNeeds) != 2 {
		t.Fatalf("expected 2 needs, got %v", p.DeclaredNeeds)
	}
	for _, n := range p.DeclaredNeeds {
		if !wantNeeds[n] {
			t.Errorf("unexpected need %q", n)
		}
	}
}

func TestExtractSectorPriority(t *testing.T) {
	// "transport" must win over the catch-all services vocabulary.
	p := Extract("Nous proposons des services de transport")
	if p.Sector != models.SectorTransport {
		t.Errorf("expected transport to win over services, got %q", p.Sector)
	}
}
