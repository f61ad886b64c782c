package dto

import (
	"errors"
	"strings"
)

// MaxTextLength bounds the accepted input size, roughly a long novel.
const MaxTextLength = 2_000_000

// ErrTextTooLong is returned when the submitted text exceeds MaxTextLength.
var ErrTextTooLong = errors.New("text exceeds maximum length")

// Character is the wire representation of a character in requests and
// responses.
type Character struct {
	Name         string   `json:"name" binding:"required"`
	Aliases      []string `json:"aliases,omitempty"`
	Role         string   `json:"role,omitempty"`
	Confidence   float64  `json:"confidence,omitempty"`
	FirstMention string   `json:"first_mention,omitempty"`
}

// ExtractRequest is the body of POST /api/v1/extract
type ExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

// Validate performs validation on ExtractRequest
func (r *ExtractRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text cannot be empty")
	}
	if len(r.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// RelationshipsRequest is the body of POST /api/v1/relationships
type RelationshipsRequest struct {
	Text       string      `json:"text" binding:"required"`
	Characters []Character `json:"characters" binding:"required"`
}

// Validate performs validation on RelationshipsRequest
func (r *RelationshipsRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text cannot be empty")
	}
	if len(r.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	if len(r.Characters) == 0 {
		return errors.New("characters array cannot be empty")
	}
	for _, c := range r.Characters {
		if strings.TrimSpace(c.Name) == "" {
			return errors.New("character name cannot be empty")
		}
	}
	return nil
}

// TraitsRequest is the body of POST /api/v1/traits
type TraitsRequest struct {
	Text      string `json:"text" binding:"required"`
	Character string `json:"character" binding:"required"`
}

// Validate performs validation on TraitsRequest
func (r *TraitsRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text cannot be empty")
	}
	if len(r.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	if strings.TrimSpace(r.Character) == "" {
		return errors.New("character cannot be empty")
	}
	return nil
}

// CompareRequest is the body of POST /api/v1/compare
type CompareRequest struct {
	Traditional []string `json:"traditional"`
	Extracted   []string `json:"extracted"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
