package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// fallbackErrorBody is marshaled once at startup so an error response can be
// written even when encoding the real payload fails.
var fallbackErrorBody = mustMarshal(models.Error("Internal server error"))

func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal static response: %v", err))
	}
	return data
}

// writeJSONResponse marshals the envelope before touching the writer, so an
// encoding failure still produces a well-formed error response instead of a
// half-written one.
func writeJSONResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("api.writeJSONResponse: marshal failed", "error", err)
		data = fallbackErrorBody
		statusCode = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(data); err != nil {
		slog.Error("api.writeJSONResponse: write failed", "error", err)
	}
}

// processMessageHandler handles POST /api/v1/sessions/{id}/messages
func (s *Server) processMessageHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	slog.Debug("processMessageHandler invoked", "session_id", sessionID)

	var req models.ProcessMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("processMessageHandler invalid JSON", "error", err, "session_id", sessionID)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	// The path is authoritative for the session identity.
	req.SessionID = sessionID

	reply, err := s.engine.ProcessMessage(r.Context(), req)
	if err != nil {
		if isValidationError(err) {
			slog.Warn("processMessageHandler validation failed", "error", err, "session_id", sessionID)
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
			return
		}
		slog.Error("processMessageHandler engine failed", "error", err, "session_id", sessionID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process message"))
		return
	}

	writeJSONResponse(w, http.StatusOK, models.Success(reply))
}

// getSessionHandler handles GET /api/v1/sessions/{id}
func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	slog.Debug("getSessionHandler invoked", "session_id", sessionID)

	sess, err := s.engine.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
			return
		}
		slog.Error("getSessionHandler failed", "error", err, "session_id", sessionID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to get session"))
		return
	}

	writeJSONResponse(w, http.StatusOK, models.Success(sess))
}

// productsHandler handles GET /api/v1/products
func (s *Server) productsHandler(w http.ResponseWriter, r *http.Request) {
	slog.Debug("productsHandler invoked")
	writeJSONResponse(w, http.StatusOK, models.Success(s.engine.Products()))
}

// healthHandler handles GET /health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]string{"status": "healthy"}))
}

// isValidationError reports whether the error is a request validation failure
// rather than an internal fault.
func isValidationError(err error) bool {
	return errors.Is(err, models.ErrEmptySessionID) ||
		errors.Is(err, models.ErrEmptyClientID) ||
		errors.Is(err, models.ErrEmptyUtterance) ||
		errors.Is(err, models.ErrUtteranceTooLong) ||
		errors.Is(err, models.ErrHistoryTooLong)
}
