package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

const testOpenAPIDoc = `openapi: 3.0.3
info:
  title: Goal Tracker API
  version: 1.0.0
paths:
  /api/v1/goals:
    get:
      responses:
        '200':
          description: Goals
`

func TestOpenAPIHandler(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "openapi.yaml")
	if err := os.WriteFile(path, []byte(testOpenAPIDoc), 0o600); err != nil {
		t.Fatalf("Failed to write spec: %v", err)
	}

	r := mux.NewRouter()
	NewOpenAPIHandler(path).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.yaml", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/x-yaml" {
		t.Errorf("Expected YAML content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Goal Tracker API") {
		t.Error("Expected YAML body to be served verbatim")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var doc map[string]any
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("Failed to decode JSON spec: %v", err)
	}
	if doc["openapi"] != "3.0.3" {
		t.Errorf("Expected openapi 3.0.3, got %v", doc["openapi"])
	}
}

func TestOpenAPIHandler_Missing(t *testing.T) {
	t.Parallel()

	h := NewOpenAPIHandler(filepath.Join(t.TempDir(), "missing.yaml"))

	for _, serve := range []http.HandlerFunc{h.ServeYAML, h.ServeJSON} {
		w := httptest.NewRecorder()
		serve(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	}
}

func TestOpenAPIHandler_RepositoryDocumentParses(t *testing.T) {
	t.Parallel()

	path := filepath.Join("..", "..", "api", "openapi", "openapi.yaml")
	h := NewOpenAPIHandler(path)

	w := httptest.NewRecorder()
	h.ServeJSON(w, httptest.NewRequest(http.MethodGet, "/api/v1/openapi.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected bundled spec to convert to JSON, got %d: %s", w.Code, w.Body.String())
	}
}
