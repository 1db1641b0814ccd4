package eligibility

import "github.com/Alexandre220990/profitum-engine/internal/models"

// ComputeMissing builds the missing-information map for the current turn:
// per product, the ordered list of not-yet-known fields its evaluator would
// use to refine the score, most diagnostic field first. Products with nothing
// missing are omitted.
func ComputeMissing(results []models.EligibilityResult, p models.ClientProfile) map[string][]string {
	missing := make(map[string][]string, len(results))
	for _, result := range results {
		fields := MissingFieldsFor(p, result.Product)
		// Drop anything the profile learned since the evaluator ran.
		kept := fields[:0]
		for _, f := range fields {
			if !p.FieldKnown(f) {
				kept = append(kept, f)
			}
		}
		if len(kept) > 0 {
			missing[result.Product.ID] = kept
		}
	}
	return missing
}
