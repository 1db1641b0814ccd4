package eligibility

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// fieldLabels renders canonical field names as the human-readable missing
// requirements reported on eligibility results.
var fieldLabels = map[string]string{
	models.FieldSector:              "Secteur d'activité",
	models.FieldAnnualRevenue:       "Chiffre d'affaires annuel",
	models.FieldEmployeeCount:       "Nombre de salariés",
	models.FieldHasVehicles:         "Véhicules professionnels (oui/non)",
	models.FieldHeavyVehicleCount:   "Nombre de poids lourds",
	models.FieldAnnualFuelLiters:    "Consommation annuelle de carburant (litres)",
	models.FieldOwnsPremises:        "Propriété des locaux (oui/non)",
	models.FieldPropertyTaxAmount:   "Montant de la taxe foncière",
	models.FieldPremisesSurfaceArea: "Surface des locaux (m²)",
	models.FieldDoesRnD:             "Activité de R&D (oui/non)",
	models.FieldPayrollTotal:        "Masse salariale annuelle",
	models.FieldAverageGrossSalary:  "Salaire brut moyen",
	models.FieldEnergyConsumption:   "Consommation électrique annuelle (kWh)",
}

// FieldLabel returns the human-readable label for a canonical field name.
func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// ScoreAll evaluates the accumulated profile against every product in the
// catalog and returns results sorted by descending score (product ID breaks
// ties so the ordering is deterministic). Scoring is a pure function of the
// profile and catalog: calling it twice yields identical results.
//
// Evaluators are isolated from one another: a fault in one degrades that
// product to non-eligible with a diagnostic reason instead of aborting the
// rest.
func ScoreAll(p models.ClientProfile, products []models.Product) []models.EligibilityResult {
	results := make([]models.EligibilityResult, 0, len(products))
	for _, product := range products {
		results = append(results, scoreOne(p, product))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Product.ID < results[j].Product.ID
	})
	return results
}

// scoreOne evaluates a single product, recovering from evaluator panics.
func scoreOne(p models.ClientProfile, product models.Product) (result models.EligibilityResult) {
	result = models.EligibilityResult{Product: product}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("eligibility.scoreOne: evaluator panicked", "productID", product.ID, "evaluator", product.Evaluator, "panic", r)
			result = models.EligibilityResult{
				Product:    product,
				Score:      0,
				IsEligible: false,
				Priority:   models.PriorityLow,
				Reasons:    []string{fmt.Sprintf("Évaluation indisponible pour ce produit (%v)", r)},
			}
		}
	}()

	ev, ok := Get(product.Evaluator)
	if !ok {
		slog.Warn("eligibility.scoreOne: no evaluator registered", "productID", product.ID, "evaluator", product.Evaluator)
		result.Priority = models.PriorityLow
		result.Reasons = []string{"Aucune règle d'évaluation disponible pour ce produit"}
		return result
	}

	evaluation := ev.Evaluate(p)
	score := evaluation.Score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	result.Score = score
	result.IsEligible = score >= models.EligibilityThreshold
	result.Priority = models.PriorityForScore(score)
	result.Reasons = evaluation.Reasons
	for _, field := range evaluation.MissingFields {
		result.MissingRequirements = append(result.MissingRequirements, FieldLabel(field))
	}

	gain, isEstimate := EstimateGain(product, p)
	result.EstimatedGain = gain
	result.GainIsEstimate = isEstimate

	return result
}

// MissingFieldsFor re-runs the product's evaluator to recover the canonical
// missing field names in their importance order. Used by the missing
// information tracker; a faulty or unknown evaluator reports no missing
// fields.
func MissingFieldsFor(p models.ClientProfile, product models.Product) (fields []string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("eligibility.MissingFieldsFor: evaluator panicked", "productID", product.ID, "panic", r)
			fields = nil
		}
	}()

	ev, ok := Get(product.Evaluator)
	if !ok {
		return nil
	}
	return ev.Evaluate(p).MissingFields
}
