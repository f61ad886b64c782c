package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/storygraph/dramatis"
	"github.com/storygraph/dramatis/pkg/llm"
	"github.com/storygraph/dramatis/pkg/types"
)

// stubAnalyzer implements dramatis.Dramatis with canned results.
type stubAnalyzer struct {
	extraction    *types.ExtractionResult
	relationships *types.RelationshipResult
	traits        *types.TraitProfile
	err           error
}

func (s *stubAnalyzer) ExtractCharacters(ctx context.Context, text string) (*types.ExtractionResult, error) {
	return s.extraction, s.err
}

func (s *stubAnalyzer) AnalyzeRelationships(ctx context.Context, text string, characters []types.Character) (*types.RelationshipResult, error) {
	return s.relationships, s.err
}

func (s *stubAnalyzer) ExtractTraits(ctx context.Context, text string, characterName string) (*types.TraitProfile, error) {
	return s.traits, s.err
}

func (s *stubAnalyzer) Compare(traditional, extracted []string) *dramatis.ComparisonResult {
	return dramatis.Compare(traditional, extracted)
}

func (s *stubAnalyzer) Close() error { return nil }

func newTestRouter(analyzer dramatis.Dramatis) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAnalysisHandler(analyzer, nil)
	router.POST("/extract", h.Extract)
	router.POST("/relationships", h.Relationships)
	router.POST("/traits", h.Traits)
	router.POST("/compare", h.Compare)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestExtractSuccess(t *testing.T) {
	analyzer := &stubAnalyzer{
		extraction: &types.ExtractionResult{
			Characters: []types.Character{{Name: "Hari Seldon", Role: types.RoleProtagonist, Confidence: 0.9}},
		},
	}
	router := newTestRouter(analyzer)

	w := postJSON(t, router, "/extract", map[string]string{"text": "Hari Seldon arrived."})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var result types.ExtractionResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Characters) != 1 || result.Characters[0].Name != "Hari Seldon" {
		t.Errorf("unexpected characters: %+v", result.Characters)
	}
}

func TestExtractEmptyText(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{})

	w := postJSON(t, router, "/extract", map[string]string{"text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestExtractAuthenticationErrorMapsTo401(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{err: llm.NewAuthenticationError("missing key")})

	w := postJSON(t, router, "/extract", map[string]string{"text": "some text"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestExtractRateLimitMapsTo429(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{err: llm.NewRateLimitError()})

	w := postJSON(t, router, "/extract", map[string]string{"text": "some text"})
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, w.Code)
	}
}

func TestRelationshipsRequiresCharacters(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{})

	w := postJSON(t, router, "/relationships", map[string]any{
		"text":       "some text",
		"characters": []any{},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRelationshipsSuccess(t *testing.T) {
	analyzer := &stubAnalyzer{
		relationships: &types.RelationshipResult{
			Relationships: []types.Relationship{
				{Character1: "Gaal Dornick", Character2: "Hari Seldon", Type: "mentor", Strength: 9},
			},
		},
	}
	router := newTestRouter(analyzer)

	w := postJSON(t, router, "/relationships", map[string]any{
		"text": "Seldon mentored Gaal.",
		"characters": []map[string]any{
			{"name": "Hari Seldon"},
			{"name": "Gaal Dornick"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestTraitsSuccess(t *testing.T) {
	analyzer := &stubAnalyzer{
		traits: &types.TraitProfile{Name: "Salvor Hardin", Personality: []string{"pragmatic"}},
	}
	router := newTestRouter(analyzer)

	w := postJSON(t, router, "/traits", map[string]string{
		"text":      "Salvor Hardin kept the peace.",
		"character": "Salvor Hardin",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var profile types.TraitProfile
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if profile.Name != "Salvor Hardin" {
		t.Errorf("unexpected profile name: %s", profile.Name)
	}
}

func TestCompare(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{})

	w := postJSON(t, router, "/compare", map[string]any{
		"traditional": []string{"Hari Seldon", "Trantor"},
		"extracted":   []string{"hari seldon", "Gaal Dornick"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var result dramatis.ComparisonResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Matched) != 1 {
		t.Errorf("expected one match, got %v", result.Matched)
	}
}
