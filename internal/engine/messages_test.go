package engine

import (
	"strings"
	"testing"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

func TestWantsResults(t *testing.T) {
	tests := []struct {
		utterance string
		want      bool
	}{
		{"Montrez-moi les résultats", true},
		{"je veux la synthèse", true},
		{"Pouvez-vous faire le bilan ?", true},
		{"Show me the results please", true},
		{"What am I eligible for?", true},
		{"J'ai terminé, on peut conclure", true},
		{"I'm finished answering questions", true},
		{"Nous avons 12 salariés", false},
		{"Nous faisons du transport", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := wantsResults(tt.utterance); got != tt.want {
			t.Errorf("wantsResults(%q) = %v, want %v", tt.utterance, got, tt.want)
		}
	}
}

func TestSynthesisTextWithEligibleProducts(t *testing.T) {
	eligible := []models.EligibilityResult{
		{Product: models.Product{ID: "ticpe", Name: "Récupération TICPE"}, Score: 100, EstimatedGain: 6000},
		{Product: models.Product{ID: "urssaf", Name: "Audit URSSAF"}, Score: 80, EstimatedGain: 4000, GainIsEstimate: true},
	}
	text := synthesisText(eligible, nil)

	if !strings.Contains(text, "Récupération TICPE") || !strings.Contains(text, "Audit URSSAF") {
		t.Errorf("expected both products listed, got %q", text)
	}
	if !strings.Contains(text, "6000 €") {
		t.Errorf("expected individual gain, got %q", text)
	}
	if !strings.Contains(text, "10000 €") {
		t.Errorf("expected total gain, got %q", text)
	}
	if !strings.Contains(text, "(estimation)") {
		t.Errorf("expected fallback gains to be marked as estimates, got %q", text)
	}
}

func TestSynthesisTextWithoutEligibleProducts(t *testing.T) {
	recs := []models.Recommendation{
		{ProductID: "urssaf", Name: "Audit URSSAF", Reason: "Score partiel de 50/100.", Heuristic: true},
	}
	text := synthesisText(nil, recs)

	if !strings.Contains(text, "Aucun produit") {
		t.Errorf("expected the no-eligible intro, got %q", text)
	}
	if !strings.Contains(text, "Audit URSSAF") {
		t.Errorf("expected the recommendation listed, got %q", text)
	}
}

func TestExplorationQuestion(t *testing.T) {
	product := models.Product{ID: "ticpe", Name: "Récupération TICPE"}
	q := explorationQuestion(product, models.FieldAnnualFuelLiters)
	if !strings.Contains(q, "Récupération TICPE") || !strings.Contains(q, "carburant") {
		t.Errorf("unexpected question: %q", q)
	}
	if got := explorationQuestion(product, "unknownField"); got != "" {
		t.Errorf("expected empty question for unknown field, got %q", got)
	}
}
