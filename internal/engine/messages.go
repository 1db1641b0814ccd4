package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// phrasingSystemPrompt frames the completion service as a rephrasing step.
// The data-driven draft always stays authoritative.
const phrasingSystemPrompt = "Tu es l'assistant conversationnel de Profitum, un courtier en optimisation " +
	"de charges et de taxes pour les entreprises françaises. Reformule les messages qui te sont fournis " +
	"sur un ton professionnel et chaleureux, sans jamais modifier les montants, les scores ni les questions posées."

// Canned texts for the fixed conversation states.
const (
	welcomeText = "Bonjour ! Je suis l'assistant Profitum. Je vais vous poser quelques questions " +
		"pour identifier vos opportunités d'optimisation de charges et de taxes."
	completedText = "Votre analyse est terminée. Un conseiller Profitum reviendra vers vous rapidement " +
		"avec les prochaines étapes. Merci de votre confiance !"
	noEligibleIntro = "Aucun produit n'atteint le seuil d'éligibilité avec les informations disponibles. " +
		"Voici néanmoins des pistes qui mériteraient d'être étudiées avec un conseiller :"
	synthesisIntro = "Voici la synthèse de votre analyse d'éligibilité :"
)

// coreQuestionOrder is the fixed priority of the profiling questions.
var coreQuestionOrder = []string{
	models.FieldSector,
	models.FieldAnnualRevenue,
	models.FieldEmployeeCount,
	models.FieldHasVehicles,
	models.FieldAnnualFuelLiters,
}

// fieldQuestions maps canonical profile fields onto the French question asked
// to fill them.
var fieldQuestions = map[string]string{
	models.FieldSector:              "Dans quel secteur d'activité exercez-vous ?",
	models.FieldAnnualRevenue:       "Quel est votre chiffre d'affaires annuel ?",
	models.FieldEmployeeCount:       "Combien de salariés compte votre entreprise ?",
	models.FieldHasVehicles:         "Utilisez-vous des véhicules professionnels ?",
	models.FieldHeavyVehicleCount:   "Combien de poids lourds exploitez-vous ?",
	models.FieldAnnualFuelLiters:    "Quelle est votre consommation annuelle de carburant en litres ?",
	models.FieldOwnsPremises:        "Êtes-vous propriétaire de vos locaux professionnels ?",
	models.FieldPropertyTaxAmount:   "Quel montant de taxe foncière payez-vous chaque année ?",
	models.FieldPremisesSurfaceArea: "Quelle est la surface de vos locaux en m2 ?",
	models.FieldDoesRnD:             "Menez-vous des activités de recherche et développement ?",
	models.FieldPayrollTotal:        "Quelle est votre masse salariale annuelle ?",
	models.FieldAverageGrossSalary:  "Quel est le salaire brut moyen dans votre entreprise ?",
	models.FieldEnergyConsumption:   "Quelle est votre consommation électrique annuelle en kWh ?",
}

// resultsIntentCues are the keywords that make a turn an explicit request for
// results, forcing synthesis with whatever information is in hand.
var resultsIntentCues = []string{
	"résultat", "resultat", "synthèse", "synthese", "bilan",
	"récapitul", "recapitul", "conclusion", "recommandation",
	"montrez-moi", "montrez moi", "j'ai terminé", "j'ai termine", "j'ai fini",
	"result", "summary", "recommend", "show me", "finished", "what am i eligible", "eligible for what",
}

// wantsResults reports whether the utterance explicitly asks for the analysis
// outcome.
func wantsResults(utterance string) bool {
	text := strings.ToLower(utterance)
	for _, cue := range resultsIntentCues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

// explorationQuestion builds the product-scoped question for one missing field.
func explorationQuestion(product models.Product, field string) string {
	q, ok := fieldQuestions[field]
	if !ok {
		return ""
	}
	return fmt.Sprintf("Pour évaluer « %s » : %s", product.Name, q)
}

// formatGain renders an amount in whole euros for user-facing text.
func formatGain(gain float64) string {
	return strconv.FormatFloat(gain, 'f', 0, 64)
}

// synthesisText renders the final analysis. Eligible products are listed by
// descending estimated gain; when none is eligible the heuristic
// recommendations are listed instead so a synthesis is never empty.
func synthesisText(eligible []models.EligibilityResult, recommendations []models.Recommendation) string {
	var b strings.Builder
	if len(eligible) == 0 {
		b.WriteString(noEligibleIntro)
		for _, rec := range recommendations {
			b.WriteString(fmt.Sprintf("\n• %s : %s", rec.Name, rec.Reason))
		}
		return b.String()
	}

	b.WriteString(synthesisIntro)
	var total float64
	for _, res := range eligible {
		suffix := ""
		if res.GainIsEstimate {
			suffix = " (estimation)"
		}
		b.WriteString(fmt.Sprintf("\n• %s : score %d/100, gain estimé %s € par an%s",
			res.Product.Name, res.Score, formatGain(res.EstimatedGain), suffix))
		total += res.EstimatedGain
	}
	b.WriteString(fmt.Sprintf("\n\nGain total potentiel estimé : %s € par an.", formatGain(total)))
	b.WriteString(" Un conseiller Profitum peut vous accompagner pour concrétiser ces optimisations.")
	return b.String()
}
