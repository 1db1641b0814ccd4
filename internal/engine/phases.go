package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// minCoreFieldsForExploration is how many core profiling fields must be known,
// sector included, before the conversation moves on to product exploration.
const minCoreFieldsForExploration = 4

// coreQuestionProduct is the pseudo product ID used in the questionsAsked
// bookkeeping for phase-level profiling questions.
const coreQuestionProduct = "core"

// nextDraft advances the phase machine until a reply is produced. Transitions
// only ever move forward; an explicit request for results jumps straight to
// synthesis with whatever is known.
func (e *Engine) nextDraft(ctx context.Context, sess *models.ConversationSession, wantsResults bool) string {
	for {
		switch sess.Phase {
		case models.PhaseWelcome:
			e.transition(sess, models.PhaseProfiling)
			if q := e.nextCoreQuestion(sess); q != "" {
				return welcomeText + "\n\n" + q
			}

		case models.PhaseProfiling:
			if wantsResults {
				e.transition(sess, models.PhaseSynthesis)
				continue
			}
			if profilingComplete(sess.Profile) {
				e.transition(sess, models.PhaseExploration)
				continue
			}
			if q := e.nextCoreQuestion(sess); q != "" {
				return q
			}
			e.transition(sess, models.PhaseExploration)

		case models.PhaseExploration:
			if wantsResults {
				e.transition(sess, models.PhaseSynthesis)
				continue
			}
			if q := e.nextExplorationQuestion(sess); q != "" {
				return q
			}
			e.transition(sess, models.PhaseSynthesis)

		case models.PhaseSynthesis:
			draft := e.synthesize(ctx, sess)
			e.transition(sess, models.PhaseCompleted)
			return draft

		default:
			return completedText
		}
	}
}

func (e *Engine) transition(sess *models.ConversationSession, next models.Phase) {
	if !sess.Phase.Before(next) {
		return
	}
	slog.Debug("Engine.transition: phase advanced", "session_id", sess.SessionID, "from", sess.Phase, "to", next)
	sess.Phase = next
}

// profilingComplete reports whether enough core facts are known to start
// exploring products. The sector is mandatory: without it the scores are
// mostly noise.
func profilingComplete(p models.ClientProfile) bool {
	return p.Sector.IsKnown() && p.KnownCoreFieldCount() >= minCoreFieldsForExploration
}

// nextCoreQuestion returns the highest-priority core question whose field is
// still unknown. Only the answer retires a core question: an evasive or
// garbled reply leaves the field unknown and the same question is asked
// again. Empty when every core field is known.
func (e *Engine) nextCoreQuestion(sess *models.ConversationSession) string {
	for _, field := range coreQuestionOrder {
		if sess.Profile.FieldKnown(field) {
			continue
		}
		sess.QuestionsAsked[models.QuestionKey(coreQuestionProduct, field)] = true
		return fieldQuestions[field]
	}
	return ""
}

// nextExplorationQuestion walks the scored products from best to worst and
// returns the first question for a missing field that has not been asked yet.
// Products below the exploration threshold are not worth the client's time.
func (e *Engine) nextExplorationQuestion(sess *models.ConversationSession) string {
	for _, res := range sess.EligibilityResults {
		if res.Score < models.ExplorationThreshold {
			continue
		}
		product, ok := e.productsByID[res.Product.ID]
		if !ok {
			continue
		}
		for _, field := range sess.MissingInformation[res.Product.ID] {
			key := models.QuestionKey(res.Product.ID, field)
			if sess.QuestionsAsked[key] {
				continue
			}
			q := explorationQuestion(product, field)
			if q == "" {
				continue
			}
			sess.QuestionsAsked[key] = true
			return q
		}
	}
	return ""
}

// synthesize builds the final analysis text and persists one record per
// eligible product.
func (e *Engine) synthesize(ctx context.Context, sess *models.ConversationSession) string {
	var eligible []models.EligibilityResult
	for _, res := range sess.EligibilityResults {
		if res.IsEligible {
			eligible = append(eligible, res)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].EstimatedGain > eligible[j].EstimatedGain
	})

	e.persistEligibleProducts(ctx, sess, eligible)

	var recommendations []models.Recommendation
	if len(eligible) == 0 {
		recommendations = buildRecommendations(sess.EligibilityResults)
	}
	slog.Info("Engine.synthesize: synthesis produced", "session_id", sess.SessionID,
		"eligible", len(eligible), "recommendations", len(recommendations))
	return synthesisText(eligible, recommendations)
}

// buildRecommendations produces heuristic suggestions when no product reaches
// the eligibility threshold. It always returns at least one entry as long as
// the catalog is non-empty.
func buildRecommendations(results []models.EligibilityResult) []models.Recommendation {
	var recs []models.Recommendation
	for _, res := range results {
		if res.IsEligible || res.Score < models.ExplorationThreshold {
			continue
		}
		recs = append(recs, models.Recommendation{
			ProductID: res.Product.ID,
			Name:      res.Product.Name,
			Reason:    fmt.Sprintf("Score partiel de %d/100, des informations complémentaires pourraient confirmer l'éligibilité.", res.Score),
			Heuristic: true,
		})
		if len(recs) == 3 {
			break
		}
	}
	if len(recs) == 0 && len(results) > 0 {
		top := results[0]
		recs = append(recs, models.Recommendation{
			ProductID: top.Product.ID,
			Name:      top.Product.Name,
			Reason:    "Piste la plus prometteuse au vu des informations disponibles, à valider avec un conseiller.",
			Heuristic: true,
		})
	}
	return recs
}
