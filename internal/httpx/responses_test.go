package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	JSONSuccess(w, map[string]bool{"is_login": true})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Error("Expected Content-Type application/json")
	}

	var body map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !body["is_login"] {
		t.Error("Expected the payload unwrapped")
	}
}

func TestJSONSuccessCreated(t *testing.T) {
	w := httptest.NewRecorder()
	JSONSuccessCreated(w, map[string]string{"isbn_13": "9780000000001"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
}

func TestJSONError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithRequestID(req.Context(), "req-1"))
	w := httptest.NewRecorder()

	JSONError(w, req, http.StatusBadRequest, "BAD_REQUEST", "authentication failed")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var response ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Success {
		t.Error("Expected success to be false")
	}
	if response.Error.Code != "BAD_REQUEST" || response.Error.Message != "authentication failed" {
		t.Errorf("Unexpected error body: %+v", response.Error)
	}
	meta, ok := response.Meta.(map[string]interface{})
	if !ok || meta["request_id"] != "req-1" {
		t.Errorf("Expected request_id in meta, got %v", response.Meta)
	}
}
