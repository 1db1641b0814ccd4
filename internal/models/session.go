// Package models defines session state structures for the conversation engine.
package models

import "time"

// Phase is one of the five conversation states governing what question or
// output is produced next.
type Phase string

const (
	PhaseWelcome     Phase = "welcome"
	PhaseProfiling   Phase = "profiling"
	PhaseExploration Phase = "exploration"
	PhaseSynthesis   Phase = "synthesis"
	PhaseCompleted   Phase = "completed"
)

// phaseOrder defines the monotone progression of phases. Transitions never
// move backwards.
var phaseOrder = map[Phase]int{
	PhaseWelcome:     0,
	PhaseProfiling:   1,
	PhaseExploration: 2,
	PhaseSynthesis:   3,
	PhaseCompleted:   4,
}

// Rank returns the ordinal position of the phase; unknown phases rank -1.
func (p Phase) Rank() int {
	if r, ok := phaseOrder[p]; ok {
		return r
	}
	return -1
}

// Before reports whether p precedes other in the conversation lifecycle.
func (p Phase) Before(other Phase) bool {
	return p.Rank() < other.Rank()
}

// IsValidPhase checks if the given phase is supported.
func IsValidPhase(p Phase) bool {
	_, ok := phaseOrder[p]
	return ok
}

// Message is a single entry in the conversation history.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationSession is the aggregate root for one dialogue, keyed by
// session ID. The conversation engine exclusively owns and mutates it.
type ConversationSession struct {
	SessionID          string              `json:"session_id"`
	ClientID           string              `json:"client_id"`
	Phase              Phase               `json:"phase"`
	Profile            ClientProfile       `json:"profile"`
	EligibilityResults []EligibilityResult `json:"eligibility_results,omitempty"`
	QuestionsAsked     map[string]bool     `json:"questions_asked,omitempty"` // key: productID+"/"+field
	MissingInformation map[string][]string `json:"missing_information,omitempty"`
	History            []Message           `json:"history,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	LastInteractionAt  time.Time           `json:"last_interaction_at"`
}

// QuestionKey builds the dedup key recorded in QuestionsAsked for a
// (product, field) pair. Core profiling questions use the "core" product ID.
func QuestionKey(productID, field string) string {
	return productID + "/" + field
}

// SessionSnapshot is the durable, best-effort representation of a session
// written to the external store on every turn for crash recovery.
type SessionSnapshot struct {
	SessionID            string    `json:"session_id"`
	ClientID             string    `json:"client_id"`
	Phase                Phase     `json:"phase"`
	ProfileJSON          string    `json:"profile_json"`
	EligibleProductsJSON string    `json:"eligible_products_json"`
	LastProcessedAt      time.Time `json:"last_processed_at"`
}

// EngineReply is the outcome of processing one inbound utterance.
type EngineReply struct {
	ResponseText       string              `json:"response_text"`
	Phase              Phase               `json:"phase"`
	Profile            ClientProfile       `json:"profile"`
	EligibilityResults []EligibilityResult `json:"eligibility_results,omitempty"`
	Recommendations    []Recommendation    `json:"recommendations,omitempty"`
	IsComplete         bool                `json:"is_complete"`
}
