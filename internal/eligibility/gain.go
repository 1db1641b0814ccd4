package eligibility

import (
	"log/slog"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// Gain formula constants. Rates are deliberately conservative midpoints; the
// final figure is always clamped to the product's amount bounds.
const (
	// ticpePerLiterRate is the recoverable TICPE amount per liter of diesel.
	ticpePerLiterRate = 0.15
	// rndPayrollShare approximates the share of payroll attributable to R&D.
	rndPayrollShare = 0.25
	// innovationPayrollShare approximates the payroll share for innovation work.
	innovationPayrollShare = 0.15
	// propertyTaxErrorRate is the typical over-assessment recovered on review.
	propertyTaxErrorRate = 0.175
	// payrollOptimizationRate is the typical recoverable share of payroll charges.
	payrollOptimizationRate = 0.04
	// dfsPayrollRate is the typical charge reduction from the flat-rate deduction.
	dfsPayrollRate = 0.06
	// agriPayrollRate is the typical recoverable share of MSA contributions.
	agriPayrollRate = 0.05
	// energyPricePerKwh is the reference professional electricity price.
	energyPricePerKwh = 0.18
	// energySavingRate is the typical saving from contract renegotiation.
	energySavingRate = 0.10
	// defaultAnnualGrossSalary stands in for payroll when only headcount is known.
	defaultAnnualGrossSalary = 35_000
)

// revenueFallbackRates give a coarse revenue-proportional estimate per
// evaluator kind when the precise input is absent.
var revenueFallbackRates = map[models.EvaluatorKind]float64{
	models.EvaluatorFuelTax:          0.010,
	models.EvaluatorRnDCredit:        0.030,
	models.EvaluatorInnovationCredit: 0.015,
	models.EvaluatorPropertyTax:      0.005,
	models.EvaluatorPayrollCharges:   0.020,
	models.EvaluatorSectorDeduction:  0.010,
	models.EvaluatorAgriCharges:      0.010,
	models.EvaluatorEnergyContract:   0.005,
}

// EstimateGain computes a bounded monetary estimate for one product given the
// accumulated profile. The returned amount is always clamped to
// [product.MinAmount, product.MaxAmount]. The second return value reports
// whether a revenue-proportional fallback was used instead of the precise
// product input, signalling lower confidence.
func EstimateGain(product models.Product, p models.ClientProfile) (float64, bool) {
	gain, precise := preciseGain(product.Evaluator, p)
	isEstimate := !precise
	if !precise {
		gain = revenueFallback(product.Evaluator, p)
	}

	clamped := clamp(gain, product.MinAmount, product.MaxAmount)
	slog.Debug("eligibility.EstimateGain: computed gain",
		"productID", product.ID, "raw", gain, "clamped", clamped, "fallback", isEstimate)
	return clamped, isEstimate
}

// preciseGain applies the product-specific formula when its input is present.
func preciseGain(kind models.EvaluatorKind, p models.ClientProfile) (float64, bool) {
	switch kind {
	case models.EvaluatorFuelTax:
		if p.AnnualFuelLiters != nil {
			return *p.AnnualFuelLiters * ticpePerLiterRate, true
		}
	case models.EvaluatorRnDCredit:
		if p.PayrollTotal != nil {
			return *p.PayrollTotal * rndPayrollShare * 0.30, true
		}
	case models.EvaluatorInnovationCredit:
		if p.PayrollTotal != nil {
			return *p.PayrollTotal * innovationPayrollShare * 0.20, true
		}
	case models.EvaluatorPropertyTax:
		if p.PropertyTaxAmount != nil {
			return *p.PropertyTaxAmount * propertyTaxErrorRate, true
		}
	case models.EvaluatorPayrollCharges:
		if p.PayrollTotal != nil {
			return *p.PayrollTotal * payrollOptimizationRate, true
		}
		if p.EmployeeCount != nil {
			salary := defaultAnnualGrossSalary
			if p.AverageGrossSalary != nil {
				salary = int(*p.AverageGrossSalary)
			}
			return float64(*p.EmployeeCount) * float64(salary) * payrollOptimizationRate, true
		}
	case models.EvaluatorSectorDeduction:
		if p.PayrollTotal != nil {
			return *p.PayrollTotal * dfsPayrollRate, true
		}
	case models.EvaluatorAgriCharges:
		if p.PayrollTotal != nil {
			return *p.PayrollTotal * agriPayrollRate, true
		}
	case models.EvaluatorEnergyContract:
		if p.AnnualEnergyConsumptionKwh != nil {
			return *p.AnnualEnergyConsumptionKwh * energyPricePerKwh * energySavingRate, true
		}
	}
	return 0, false
}

// revenueFallback produces the coarse revenue-proportional estimate. With no
// revenue either, it returns zero and lets clamping raise the figure to the
// product floor.
func revenueFallback(kind models.EvaluatorKind, p models.ClientProfile) float64 {
	if p.AnnualRevenue == nil {
		return 0
	}
	return *p.AnnualRevenue * revenueFallbackRates[kind]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
