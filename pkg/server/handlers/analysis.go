package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storygraph/dramatis"
	"github.com/storygraph/dramatis/pkg/llm"
	"github.com/storygraph/dramatis/pkg/parser"
	"github.com/storygraph/dramatis/pkg/server/dto"
	"github.com/storygraph/dramatis/pkg/types"
)

// AnalysisHandler handles character and relationship analysis requests
type AnalysisHandler struct {
	analyzer dramatis.Dramatis
	logger   *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analyzer dramatis.Dramatis, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// Extract handles POST /api/v1/extract
func (h *AnalysisHandler) Extract(c *gin.Context) {
	var req dto.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.analyzer.ExtractCharacters(c.Request.Context(), req.Text)
	if err != nil {
		h.logger.Error("character extraction failed", "error", err)
		h.writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Relationships handles POST /api/v1/relationships
func (h *AnalysisHandler) Relationships(c *gin.Context) {
	var req dto.RelationshipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	characters := make([]types.Character, 0, len(req.Characters))
	for _, ch := range req.Characters {
		characters = append(characters, types.Character{
			Name:       ch.Name,
			Aliases:    ch.Aliases,
			Role:       types.NormalizeRole(ch.Role),
			Confidence: ch.Confidence,
		})
	}

	result, err := h.analyzer.AnalyzeRelationships(c.Request.Context(), req.Text, characters)
	if err != nil {
		h.logger.Error("relationship analysis failed", "error", err)
		h.writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Traits handles POST /api/v1/traits
func (h *AnalysisHandler) Traits(c *gin.Context) {
	var req dto.TraitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	profile, err := h.analyzer.ExtractTraits(c.Request.Context(), req.Text, req.Character)
	if err != nil {
		h.logger.Error("trait extraction failed", "character", req.Character, "error", err)
		h.writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Compare handles POST /api/v1/compare
func (h *AnalysisHandler) Compare(c *gin.Context) {
	var req dto.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.analyzer.Compare(req.Traditional, req.Extracted))
}

// writeAnalysisError maps the error taxonomy onto HTTP status codes.
func (h *AnalysisHandler) writeAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, &llm.ConfigurationError{}), errors.Is(err, dramatis.ErrEmptyText), errors.Is(err, dramatis.ErrNoCharacters):
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, &llm.AuthenticationError{}):
		writeError(c, http.StatusUnauthorized, "authentication_failed", err.Error())
	case errors.Is(err, &llm.RateLimitError{}):
		writeError(c, http.StatusTooManyRequests, "rate_limited", err.Error())
	case errors.Is(err, &parser.MalformedResponseError{}), errors.Is(err, &llm.ProviderError{}), errors.Is(err, &llm.TransportError{}):
		writeError(c, http.StatusBadGateway, "upstream_failed", err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// writeError writes an error response as JSON
func writeError(c *gin.Context, status int, errCode, message string) {
	c.JSON(status, dto.ErrorResponse{
		Error:   errCode,
		Message: message,
		Code:    status,
	})
}
