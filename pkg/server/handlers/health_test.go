package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func healthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHealthHandler("ollama")
	router.GET("/health", h.HealthCheck)
	router.GET("/live", h.LivenessCheck)
	router.GET("/health/detailed", h.DetailedHealthCheck)
	return router
}

func TestHealthCheck(t *testing.T) {
	router := healthRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", response["status"])
	}
	if response["service"] != "dramatis" {
		t.Errorf("expected service dramatis, got %v", response["service"])
	}
	if response["provider"] != "ollama" {
		t.Errorf("expected provider ollama, got %v", response["provider"])
	}
	if _, ok := response["timestamp"]; !ok {
		t.Error("expected timestamp in response")
	}
}

func TestLivenessCheck(t *testing.T) {
	router := healthRouter()

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestDetailedHealthCheck(t *testing.T) {
	router := healthRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/detailed", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := response["runtime"]; !ok {
		t.Error("expected runtime metrics in response")
	}
}
