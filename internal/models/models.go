// Package models defines the core data structures for the Profitum eligibility engine.
//
// It includes the client profile, product catalog entries, conversation
// session state, and the API envelope types shared across modules.
package models

import "errors"

// Validation constants for inbound messages.
const (
	// MaxUtteranceLength defines the maximum allowed length for a user utterance.
	MaxUtteranceLength = 4096
	// MaxPriorHistoryMessages defines the maximum replayable history size.
	MaxPriorHistoryMessages = 200
)

// Error variables for better error handling and testability.
var (
	ErrEmptySessionID   = errors.New("session ID cannot be empty")
	ErrEmptyClientID    = errors.New("client ID cannot be empty")
	ErrEmptyUtterance   = errors.New("utterance cannot be empty")
	ErrUtteranceTooLong = errors.New("utterance exceeds maximum length")
	ErrHistoryTooLong   = errors.New("prior history exceeds maximum length")
	ErrUnknownProduct   = errors.New("unknown product")
	ErrSessionNotFound  = errors.New("session not found")
)

// ProcessMessageRequest is the payload consumed from the API layer for one
// conversational turn.
type ProcessMessageRequest struct {
	SessionID    string    `json:"session_id"`
	ClientID     string    `json:"client_id"`
	Utterance    string    `json:"message"`
	PriorHistory []Message `json:"prior_history,omitempty"`
}

// Validate performs validation on a ProcessMessageRequest. A missing session
// identity is the only fatal condition and must be rejected before any state
// mutation.
func (r *ProcessMessageRequest) Validate() error {
	if r.SessionID == "" {
		return ErrEmptySessionID
	}
	if r.ClientID == "" {
		return ErrEmptyClientID
	}
	if r.Utterance == "" {
		return ErrEmptyUtterance
	}
	if len(r.Utterance) > MaxUtteranceLength {
		return ErrUtteranceTooLong
	}
	if len(r.PriorHistory) > MaxPriorHistoryMessages {
		return ErrHistoryTooLong
	}
	return nil
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
