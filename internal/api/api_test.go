package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Alexandre220990/profitum-engine/internal/catalog"
	"github.com/Alexandre220990/profitum-engine/internal/engine"
	"github.com/Alexandre220990/profitum-engine/internal/models"
)

func newTestServer() *Server {
	eng := engine.New(engine.WithProducts(catalog.Default()))
	return NewServer(eng)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

func TestHealthHandler(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Status != string(models.APIStatusOK) {
		t.Errorf("expected ok status, got %q", resp.Status)
	}
}

func TestProductsHandler(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodGet, "/api/v1/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	products, ok := resp.Result.([]interface{})
	if !ok {
		t.Fatalf("expected a product list, got %T", resp.Result)
	}
	if len(products) != len(catalog.Default()) {
		t.Errorf("expected %d products, got %d", len(catalog.Default()), len(products))
	}
}

func TestProcessMessageHandler(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, http.MethodPost, "/api/v1/sessions/sess-1/messages",
		`{"client_id":"client-1","message":"Bonjour"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %q)", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if resp.Status != string(models.APIStatusOK) {
		t.Fatalf("expected ok status, got %q", resp.Status)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("expected a reply object, got %T", resp.Result)
	}
	if result["phase"] != string(models.PhaseProfiling) {
		t.Errorf("expected profiling phase, got %v", result["phase"])
	}
	if result["response_text"] == "" {
		t.Error("expected a non-empty response text")
	}
}

func TestProcessMessageHandlerInvalidJSON(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodPost, "/api/v1/sessions/sess-1/messages", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestProcessMessageHandlerValidation(t *testing.T) {
	rec := doRequest(t, newTestServer(), http.MethodPost, "/api/v1/sessions/sess-1/messages",
		`{"client_id":"","message":"Bonjour"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing client ID, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Status != string(models.APIStatusError) {
		t.Errorf("expected error status, got %q", resp.Status)
	}
}

func TestGetSessionHandler(t *testing.T) {
	s := newTestServer()
	if rec := doRequest(t, s, http.MethodGet, "/api/v1/sessions/unknown", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", rec.Code)
	}

	doRequest(t, s, http.MethodPost, "/api/v1/sessions/sess-2/messages",
		`{"client_id":"client-1","message":"Nous faisons du transport"}`)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/sessions/sess-2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("expected a session object, got %T", resp.Result)
	}
	if result["session_id"] != "sess-2" {
		t.Errorf("expected session_id sess-2, got %v", result["session_id"])
	}
}

func TestSessionIDTakenFromPath(t *testing.T) {
	s := newTestServer()
	// A mismatching body session ID must not override the path.
	doRequest(t, s, http.MethodPost, "/api/v1/sessions/sess-path/messages",
		`{"session_id":"sess-body","client_id":"client-1","message":"Bonjour"}`)
	if rec := doRequest(t, s, http.MethodGet, "/api/v1/sessions/sess-path", ""); rec.Code != http.StatusOK {
		t.Errorf("expected session under path ID, got %d", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodGet, "/api/v1/sessions/sess-body", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected no session under body ID, got %d", rec.Code)
	}
}
