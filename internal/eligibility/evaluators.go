// Package eligibility provides the per-product scoring engine.
//
// Each product in the catalog references an evaluator by a stable kind
// identifier. Evaluators are pure functions of the client profile: they return
// a 0-100 score, human-readable justifications, and the profile fields still
// missing, and hold no state of their own.
package eligibility

import (
	"fmt"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// Evaluation is the outcome of running one evaluator against a profile.
type Evaluation struct {
	Score         int
	Reasons       []string
	MissingFields []string // canonical field names, most diagnostic first
}

// Evaluator scores a client profile for one product family.
type Evaluator interface {
	Evaluate(p models.ClientProfile) Evaluation
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(p models.ClientProfile) Evaluation

// Evaluate runs the wrapped function.
func (f EvaluatorFunc) Evaluate(p models.ClientProfile) Evaluation {
	return f(p)
}

var registry = make(map[models.EvaluatorKind]Evaluator)

// Register associates an EvaluatorKind with an Evaluator implementation.
func Register(kind models.EvaluatorKind, ev Evaluator) {
	registry[kind] = ev
}

// Get retrieves the Evaluator for a given kind.
func Get(kind models.EvaluatorKind) (Evaluator, bool) {
	ev, ok := registry[kind]
	return ev, ok
}

// Register default evaluators.
func init() {
	Register(models.EvaluatorFuelTax, EvaluatorFunc(evaluateFuelTax))
	Register(models.EvaluatorRnDCredit, EvaluatorFunc(evaluateRnDCredit))
	Register(models.EvaluatorInnovationCredit, EvaluatorFunc(evaluateInnovationCredit))
	Register(models.EvaluatorPropertyTax, EvaluatorFunc(evaluatePropertyTax))
	Register(models.EvaluatorPayrollCharges, EvaluatorFunc(evaluatePayrollCharges))
	Register(models.EvaluatorSectorDeduction, EvaluatorFunc(evaluateSectorDeduction))
	Register(models.EvaluatorAgriCharges, EvaluatorFunc(evaluateAgriCharges))
	Register(models.EvaluatorEnergyContract, EvaluatorFunc(evaluateEnergyContract))
}

// evaluateFuelTax scores the TICPE fuel-tax refund: transport sector and a
// professional vehicle fleet are the dominant signals.
func evaluateFuelTax(p models.ClientProfile) Evaluation {
	var ev Evaluation

	if p.Sector == models.SectorTransport {
		ev.Score += 40
		ev.Reasons = append(ev.Reasons, "Secteur transport éligible à la TICPE")
	} else if !p.Sector.IsKnown() {
		ev.MissingFields = append(ev.MissingFields, models.FieldSector)
	}

	if p.HasVehicles() {
		ev.Score += 40
		ev.Reasons = append(ev.Reasons, "Véhicules professionnels déclarés")
	} else if p.HasProfessionalVehicles == models.TriNo {
		ev.Reasons = append(ev.Reasons, "Véhicules professionnels requis")
	} else {
		ev.MissingFields = append(ev.MissingFields, models.FieldHasVehicles)
	}

	if p.AnnualFuelLiters == nil {
		ev.MissingFields = append(ev.MissingFields, models.FieldAnnualFuelLiters)
	} else if *p.AnnualFuelLiters > 0 {
		ev.Reasons = append(ev.Reasons, fmt.Sprintf("Consommation de carburant déclarée: %.0f litres/an", *p.AnnualFuelLiters))
	}

	if p.EmployeeCount != nil {
		if *p.EmployeeCount >= 3 {
			ev.Score += 20
			ev.Reasons = append(ev.Reasons, "Effectif suffisant")
		}
	} else {
		ev.MissingFields = append(ev.MissingFields, models.FieldEmployeeCount)
	}

	return ev
}

// evaluateRnDCredit scores the CIR research tax credit. A declared R&D
// activity is worth most of the score; without it the product can never reach
// eligibility.
func evaluateRnDCredit(p models.ClientProfile) Evaluation {
	var ev Evaluation

	if p.DoesRnD == models.TriYes {
		ev.Score += 70
		ev.Reasons = append(ev.Reasons, "Activités de R&D déclarées")
	} else {
		ev.Reasons = append(ev.Reasons, "Activités de R&D requises")
		if p.DoesRnD == models.TriUnknown {
			ev.MissingFields = append(ev.MissingFields, models.FieldDoesRnD)
		}
	}

	if p.Sector == models.SectorIndustry || p.Sector == models.SectorServices {
		ev.Score += 20
		ev.Reasons = append(ev.Reasons, "Secteur propice aux dépenses de recherche")
	}

	if p.EmployeeCount != nil {
		if *p.EmployeeCount >= 5 {
			ev.Score += 10
		}
	} else {
		ev.MissingFields = append(ev.MissingFields, models.FieldEmployeeCount)
	}

	if p.PayrollTotal == nil {
		ev.MissingFields = append(ev.MissingFields, models.FieldPayrollTotal)
	}

	return ev
}

// evaluateInnovationCredit scores the CII innovation credit, reserved for
// SMEs with an innovation activity.
func evaluateInnovationCredit(p models.ClientProfile) Evaluation {
	var ev Evaluation

	if p.DoesRnD == models.TriYes {
		ev.Score += 50
		ev.Reasons = append(ev.Reasons, "Activité d'innovation déclarée")
	} else {
		ev.Reasons = append(ev.Reasons, "Activité d'innovation requise")
		if p.DoesRnD == models.TriUnknown {
			ev.MissingFields = append(ev.MissingFields, models.FieldDoesRnD)
		}
	}

	switch p.Sector {
	case models.SectorServices, models.SectorIndustry, models.SectorCommerce:
		ev.Score += 20
		ev.Reasons = append(ev.Reasons, "Secteur éligible au CII")
	}

	if p.EmployeeCount != nil {
		if *p.EmployeeCount >= 1 && *p.EmployeeCount < 250 {
			ev.Score += 15
			ev.Reasons = append(ev.Reasons, "Taille de PME éligible")
		}
	} else {
		ev.MissingFields = append(ev.MissingFields, models.FieldEmployeeCount)
	}

	if p.AnnualRevenue != nil {
		if *p.AnnualRevenue < 50_000_000 {
			ev.Score += 15
		}
	} else {
		ev.MissingFields = append(ev.MissingFields, models.FieldAnnualRevenue)
	}

	return ev
}

// evaluatePropertyTax scores the property-tax review: owning the premises is
// nearly the whole signal.
func evaluatePropertyTax(p models.ClientProfile) Evaluation {
	var ev Evaluation

	switch p.OwnsPremises {
	case models.TriYes:
		ev.Score += 80
		ev.Reasons = append(ev.Reasons, "Propriétaire de ses locaux")
	case models.TriNo:
		ev.Reasons = append(ev.Reasons, "Réservé aux propriétaires de leurs locaux")
	default:
		ev.MissingFields = append(ev.MissingFields, models.FieldOwnsPremises)
	}

	if p.Sector == models.SectorIndustry || p.Sector == models.SectorCommerce {
		ev.Score += 20
		ev.Reasons = append(ev.Reasons, "Secteur avec valeurs locatives fréquemment surévaluées")
	}

	if p.PropertyTaxAmount == nil {
		ev.MissingFields = append(ev.MissingFields, models.FieldPropertyTaxAmount)
	}
	if p.PremisesSurfaceArea == nil {
		ev.MissingFields = append(ev.MissingFields, models.FieldPremisesSurfaceArea)
	}

	return ev
}

// evaluatePayrollCharges scores the social-charges audit: driven by headcount
// and revenue tier.
func evaluatePayrollCharges(p models.ClientProfile) Evaluation {
	var ev Evaluation

	if p.EmployeeCount != nil {
		if *p.EmployeeCount >= 3 {
			ev.Score += 60
			ev.Reasons = append(ev.Reasons, "Effectif salarié significatif")
		} else {
			ev.Reasons = append(ev.Reasons, "Effectif salarié trop faible")
		}
	} else {
		ev.MissingFields = append(ev.MissingFields, models.FieldEmployeeCount)
	}

	if p.AnnualRevenue != nil {
		switch {
		case *p.AnnualRevenue >= 1_000_000:
			ev.Score += 30
			ev.Reasons = append(ev.Reasons, "Chiffre d'affaires élevé")
		case *p.AnnualRevenue >= 500_000:
			ev.Score += 20
		case *p.AnnualRevenue >= 100_000:
			ev.Score += 10
		}
	} else {
		ev.MissingFields = append(ev.MissingFields, models.FieldAnnualRevenue)
	}

	if p.Sector == models.SectorTransport || p.Sector == models.SectorIndustry {
		ev.Score += 10
		ev.Reasons = append(ev.Reasons, "Secteur à charges sociales élevées")
	}

	if p.PayrollTotal == nil {
		ev.MissingFields = append(ev.MissingFields, models.FieldPayrollTotal)
	}

	return ev
}

// dfsSectors are the sectors eligible for the specific flat-rate deduction.
var dfsSectors = map[models.Sector]bool{
	models.SectorTransport:  true,
	models.SectorSecurity:   true,
	models.SectorLiveEvents: true,
}

// evaluateSectorDeduction scores the DFS flat-rate deduction for qualifying
// sectors.
func evaluateSectorDeduction(p models.ClientProfile) Evaluation {
	var ev Evaluation

	if dfsSectors[p.Sector] {
		ev.Score += 40
		ev.Reasons = append(ev.Reasons, "Secteur éligible à la déduction forfaitaire spécifique")
	} else if !p.Sector.IsKnown() {
		ev.MissingFields = append(ev.MissingFields, models.FieldSector)
	} else {
		ev.Reasons = append(ev.Reasons, "Secteur non éligible à la DFS")
	}

	if p.EmployeeCount != nil {
		if *p.EmployeeCount >= 5 {
			ev.Score += 30
			ev.Reasons = append(ev.Reasons, "Effectif suffisant pour un audit DFS")
		}
	} else {
		ev.MissingFields = append(ev.MissingFields, models.FieldEmployeeCount)
	}

	if p.OwnsPremises == models.TriYes {
		ev.Score += 30
	} else if p.OwnsPremises == models.TriUnknown {
		ev.MissingFields = append(ev.MissingFields, models.FieldOwnsPremises)
	}

	if p.PayrollTotal == nil {
		ev.MissingFields = append(ev.MissingFields, models.FieldPayrollTotal)
	}

	return ev
}

// evaluateAgriCharges scores the MSA agricultural-charges audit.
func evaluateAgriCharges(p models.ClientProfile) Evaluation {
	var ev Evaluation

	if p.Sector == models.SectorAgriculture {
		ev.Score += 80
		ev.Reasons = append(ev.Reasons, "Exploitation agricole affiliée à la MSA")
	} else if !p.Sector.IsKnown() {
		ev.MissingFields = append(ev.MissingFields, models.FieldSector)
	} else {
		ev.Reasons = append(ev.Reasons, "Réservé au secteur agricole")
	}

	if p.EmployeeCount != nil {
		if *p.EmployeeCount >= 2 {
			ev.Score += 20
			ev.Reasons = append(ev.Reasons, "Main d'œuvre salariée déclarée")
		}
	} else {
		ev.MissingFields = append(ev.MissingFields, models.FieldEmployeeCount)
	}

	if p.PayrollTotal == nil {
		ev.MissingFields = append(ev.MissingFields, models.FieldPayrollTotal)
	}

	return ev
}

// evaluateEnergyContract scores the energy-contract renegotiation: driven by
// declared consumption, sector energy intensity and premises.
func evaluateEnergyContract(p models.ClientProfile) Evaluation {
	var ev Evaluation

	if p.AnnualEnergyConsumptionKwh != nil {
		if *p.AnnualEnergyConsumptionKwh >= 20_000 {
			ev.Score += 40
			ev.Reasons = append(ev.Reasons, "Consommation énergétique significative")
		}
	} else {
		ev.MissingFields = append(ev.MissingFields, models.FieldEnergyConsumption)
	}

	switch p.Sector {
	case models.SectorIndustry, models.SectorHospitality, models.SectorCommerce:
		ev.Score += 30
		ev.Reasons = append(ev.Reasons, "Secteur énergivore")
	}

	if p.OwnsPremises == models.TriYes || p.PremisesSurfaceArea != nil {
		ev.Score += 30
		ev.Reasons = append(ev.Reasons, "Locaux professionnels identifiés")
	} else if p.OwnsPremises == models.TriUnknown {
		ev.MissingFields = append(ev.MissingFields, models.FieldOwnsPremises)
	}

	return ev
}
