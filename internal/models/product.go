// Package models defines the core data structures for the Profitum eligibility engine.
package models

import "time"

// EvaluatorKind identifies the scoring function attached to a product.
// Products reference evaluators by this stable identifier rather than by
// display name, so catalog entries can be renamed without touching code.
type EvaluatorKind string

const (
	EvaluatorFuelTax          EvaluatorKind = "ticpe-fuel-tax"
	EvaluatorRnDCredit        EvaluatorKind = "rnd-tax-credit"
	EvaluatorInnovationCredit EvaluatorKind = "innovation-tax-credit"
	EvaluatorPropertyTax      EvaluatorKind = "property-tax"
	EvaluatorPayrollCharges   EvaluatorKind = "payroll-charges"
	EvaluatorSectorDeduction  EvaluatorKind = "sector-specific-deduction"
	EvaluatorAgriCharges      EvaluatorKind = "agricultural-charges"
	EvaluatorEnergyContract   EvaluatorKind = "energy-contract"
)

// IsValidEvaluatorKind checks if the given evaluator kind is supported.
func IsValidEvaluatorKind(k EvaluatorKind) bool {
	switch k {
	case EvaluatorFuelTax, EvaluatorRnDCredit, EvaluatorInnovationCredit,
		EvaluatorPropertyTax, EvaluatorPayrollCharges, EvaluatorSectorDeduction,
		EvaluatorAgriCharges, EvaluatorEnergyContract:
		return true
	default:
		return false
	}
}

// Product is an immutable catalog entry for a financial-optimization
// opportunity. Products are read-only reference data within a session.
type Product struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	MinRate           float64       `json:"min_rate"`
	MaxRate           float64       `json:"max_rate"`
	MinAmount         float64       `json:"min_amount"`
	MaxAmount         float64       `json:"max_amount"`
	MinDurationMonths int           `json:"min_duration_months"`
	MaxDurationMonths int           `json:"max_duration_months"`
	Evaluator         EvaluatorKind `json:"evaluator"`
}

// Eligibility thresholds shared by the scorer and the state machine.
const (
	// EligibilityThreshold is the minimum score for an eligible verdict.
	EligibilityThreshold = 60
	// HighPriorityThreshold marks results worth surfacing first.
	HighPriorityThreshold = 80
	// ExplorationThreshold marks eligible-leaning products whose missing
	// fields are worth asking about during the Exploration phase.
	ExplorationThreshold = 40
)

// Priority buckets an eligibility score for presentation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityForScore maps a 0-100 score onto a priority bucket.
func PriorityForScore(score int) Priority {
	switch {
	case score >= HighPriorityThreshold:
		return PriorityHigh
	case score >= EligibilityThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// EligibilityResult is the outcome of evaluating one product against the
// accumulated profile. Results are derived data: recomputed on every turn and
// never persisted on their own.
type EligibilityResult struct {
	Product             Product  `json:"product"`
	Score               int      `json:"score"`
	IsEligible          bool     `json:"is_eligible"`
	Priority            Priority `json:"priority"`
	Reasons             []string `json:"reasons"`
	MissingRequirements []string `json:"missing_requirements"`
	EstimatedGain       float64  `json:"estimated_gain"`
	GainIsEstimate      bool     `json:"gain_is_estimate"` // true when the gain used a revenue-proportional fallback
}

// Recommendation is a heuristic suggestion produced when no product reaches
// formal eligibility, so a synthesis is never empty.
type Recommendation struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	Heuristic bool   `json:"heuristic"` // always true, distinguishes from scored eligibility
}

// EligibleProductRecord is the artifact handed to the persistence collaborator
// at Synthesis time, one per eligible product.
type EligibleProductRecord struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	ClientID      string    `json:"client_id"`
	ProductID     string    `json:"product_id"`
	Score         int       `json:"score"`
	EstimatedGain float64   `json:"estimated_gain"`
	Reasons       []string  `json:"reasons"`
	CreatedAt     time.Time `json:"created_at"`
}
