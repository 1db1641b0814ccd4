// Package catalog provides the product catalog for the eligibility engine.
//
// Products are read-only reference data within a session. The catalog is
// normally fetched from the configured store; when the store is unavailable or
// empty, a built-in default catalog keeps the engine operating with degraded
// but non-empty behavior.
package catalog

import (
	"context"
	"log/slog"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// ProductSource is the read-only catalog fetch a store backend provides.
type ProductSource interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
}

// Default returns the built-in product catalog. Amount bounds are in euros;
// rates are the product-specific recovery/optimization rates used by the gain
// formulas.
func Default() []models.Product {
	return []models.Product{
		{
			ID:                "ticpe",
			Name:              "Remboursement TICPE",
			Description:       "Remboursement partiel de la taxe intérieure de consommation sur les produits énergétiques pour les véhicules professionnels.",
			MinRate:           0.10,
			MaxRate:           0.20,
			MinAmount:         1_000,
			MaxAmount:         100_000,
			MinDurationMonths: 3,
			MaxDurationMonths: 12,
			Evaluator:         models.EvaluatorFuelTax,
		},
		{
			ID:                "cir",
			Name:              "Crédit d'Impôt Recherche (CIR)",
			Description:       "Crédit d'impôt de 30% sur les dépenses de recherche et développement éligibles.",
			MinRate:           0.30,
			MaxRate:           0.30,
			MinAmount:         5_000,
			MaxAmount:         500_000,
			MinDurationMonths: 12,
			MaxDurationMonths: 36,
			Evaluator:         models.EvaluatorRnDCredit,
		},
		{
			ID:                "cii",
			Name:              "Crédit d'Impôt Innovation (CII)",
			Description:       "Crédit d'impôt de 20% sur les dépenses d'innovation des PME.",
			MinRate:           0.20,
			MaxRate:           0.20,
			MinAmount:         2_000,
			MaxAmount:         80_000,
			MinDurationMonths: 12,
			MaxDurationMonths: 24,
			Evaluator:         models.EvaluatorInnovationCredit,
		},
		{
			ID:                "foncier",
			Name:              "Optimisation Taxe Foncière",
			Description:       "Révision de la valeur locative cadastrale et récupération des trop-perçus de taxe foncière.",
			MinRate:           0.10,
			MaxRate:           0.25,
			MinAmount:         500,
			MaxAmount:         50_000,
			MinDurationMonths: 6,
			MaxDurationMonths: 18,
			Evaluator:         models.EvaluatorPropertyTax,
		},
		{
			ID:                "urssaf",
			Name:              "Optimisation Charges Sociales",
			Description:       "Audit des cotisations sociales et récupération des cotisations indûment versées.",
			MinRate:           0.02,
			MaxRate:           0.06,
			MinAmount:         1_000,
			MaxAmount:         150_000,
			MinDurationMonths: 3,
			MaxDurationMonths: 12,
			Evaluator:         models.EvaluatorPayrollCharges,
		},
		{
			ID:                "dfs",
			Name:              "Déduction Forfaitaire Spécifique (DFS)",
			Description:       "Abattement sur l'assiette des cotisations sociales pour les secteurs éligibles.",
			MinRate:           0.10,
			MaxRate:           0.30,
			MinAmount:         1_000,
			MaxAmount:         60_000,
			MinDurationMonths: 3,
			MaxDurationMonths: 12,
			Evaluator:         models.EvaluatorSectorDeduction,
		},
		{
			ID:                "msa",
			Name:              "Optimisation Charges MSA",
			Description:       "Audit des cotisations de la mutualité sociale agricole pour les exploitants.",
			MinRate:           0.03,
			MaxRate:           0.08,
			MinAmount:         500,
			MaxAmount:         40_000,
			MinDurationMonths: 3,
			MaxDurationMonths: 12,
			Evaluator:         models.EvaluatorAgriCharges,
		},
		{
			ID:                "energie",
			Name:              "Renégociation Contrat Énergie",
			Description:       "Renégociation des contrats d'électricité et de gaz professionnels.",
			MinRate:           0.05,
			MaxRate:           0.15,
			MinAmount:         500,
			MaxAmount:         30_000,
			MinDurationMonths: 1,
			MaxDurationMonths: 6,
			Evaluator:         models.EvaluatorEnergyContract,
		},
	}
}

// Load fetches the catalog from the given source, falling back to the
// built-in default catalog when the source is nil, fails, or returns no
// products. Entries referencing an unknown evaluator kind are dropped so a
// misconfigured catalog row cannot break scoring.
func Load(ctx context.Context, source ProductSource) []models.Product {
	if source == nil {
		slog.Debug("catalog.Load: no product source configured, using default catalog")
		return Default()
	}

	products, err := source.GetProducts(ctx)
	if err != nil {
		slog.Warn("catalog.Load: product source failed, using default catalog", "error", err)
		return Default()
	}
	if len(products) == 0 {
		slog.Debug("catalog.Load: product source empty, using default catalog")
		return Default()
	}

	valid := products[:0]
	for _, product := range products {
		if !models.IsValidEvaluatorKind(product.Evaluator) {
			slog.Warn("catalog.Load: dropping product with unknown evaluator", "productID", product.ID, "evaluator", product.Evaluator)
			continue
		}
		valid = append(valid, product)
	}
	if len(valid) == 0 {
		slog.Warn("catalog.Load: no valid products in source, using default catalog")
		return Default()
	}

	slog.Info("catalog.Load: catalog loaded from store", "count", len(valid))
	return valid
}

// ByID returns the product with the given ID from the catalog, if present.
func ByID(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
