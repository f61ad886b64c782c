package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storygraph/dramatis/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
			Mode: "test",
		},
		LLM: config.LLMConfig{
			Provider: "ollama",
			Model:    "llama3.2",
		},
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig()

	// Test with nil analyzer (server should still be created)
	server := New(cfg, nil, nil)
	if server == nil {
		t.Fatal("expected non-nil server")
	}

	if server.config != cfg {
		t.Error("expected config to be set")
	}
}

func TestSetup(t *testing.T) {
	server := New(testConfig(), nil, nil)
	server.Setup()

	if server.router == nil {
		t.Error("expected router to be initialized")
	}

	if server.server == nil {
		t.Error("expected http.Server to be initialized")
	}

	expectedAddr := "localhost:8080"
	if server.server.Addr != expectedAddr {
		t.Errorf("expected addr %s, got %s", expectedAddr, server.server.Addr)
	}
}

func TestHealthRoute(t *testing.T) {
	server := New(testConfig(), nil, nil)
	server.Setup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	server := New(testConfig(), nil, nil)
	server.Setup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected generated X-Request-ID header")
	}

	// A caller-provided ID is echoed back
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	w = httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "caller-id" {
		t.Errorf("expected caller-id, got %s", got)
	}
}

func TestCORSPreflighted(t *testing.T) {
	server := New(testConfig(), nil, nil)
	server.Setup()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/extract", nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS allow-origin header")
	}
}
