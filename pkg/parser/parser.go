// Package parser turns raw model output into typed analysis records. Models
// wrap JSON in prose, markdown fences, or reasoning tags, and frequently
// mistype numeric fields; this package tolerates all of that and only fails
// with MalformedResponseError when no usable JSON can be located at all.
package parser

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"

	"github.com/storygraph/dramatis/pkg/prompts"
	"github.com/storygraph/dramatis/pkg/types"
)

// Coercion defaults for out-of-range or non-numeric vendor values.
const (
	DefaultConfidence = 0.5
	DefaultStrength   = 5
)

// MalformedResponseError indicates the model's output did not contain a
// parseable JSON value of the expected shape.
type MalformedResponseError struct {
	Message string
}

func (e *MalformedResponseError) Error() string {
	if e.Message == "" {
		return "model response contained no parseable JSON"
	}
	return e.Message
}

// Is implements errors.Is support for MalformedResponseError.
func (e *MalformedResponseError) Is(target error) bool {
	_, ok := target.(*MalformedResponseError)
	return ok
}

// NewMalformedResponseError creates a new malformed response error.
func NewMalformedResponseError(message string) *MalformedResponseError {
	return &MalformedResponseError{Message: message}
}

var thinkTagRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// RemoveThinkTags strips <think> blocks emitted by local reasoning models.
func RemoveThinkTags(input string) string {
	return thinkTagRe.ReplaceAllString(input, "")
}

// ExtractJSON locates the first balanced JSON object or array in raw model
// output, tolerating surrounding prose and markdown code fences. It returns
// an empty string when no candidate is found.
func ExtractJSON(response string) string {
	response = strings.TrimSpace(RemoveThinkTags(response))

	// Prefer an explicit ```json fence when present.
	if idx := strings.Index(response, "```json"); idx != -1 {
		rest := response[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if strings.HasPrefix(response, "```") {
		lines := strings.Split(response, "\n")
		if len(lines) > 2 {
			response = strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
		}
	}

	start := strings.IndexAny(response, "{[")
	if start == -1 {
		return ""
	}
	if end := balancedEnd(response, start); end != -1 {
		return response[start : end+1]
	}
	// Unbalanced: return the tail and let jsonrepair take a shot at it.
	return response[start:]
}

// balancedEnd scans from the opening bracket at start and returns the index
// of its matching close bracket, honoring string literals and escapes.
// Returns -1 when the value never closes.
func balancedEnd(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// decode extracts, repairs if needed, and unmarshals raw model output into v.
func decode(raw string, v any) error {
	candidate := ExtractJSON(raw)
	if candidate == "" {
		return NewMalformedResponseError("no JSON value found in model response")
	}
	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}
	repaired, repairErr := jsonrepair.JSONRepair(candidate)
	if repairErr != nil {
		return NewMalformedResponseError("model response JSON could not be repaired: " + repairErr.Error())
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return NewMalformedResponseError("model response JSON did not match expected shape: " + err.Error())
	}
	return nil
}

// ParseCharacters parses a character extraction response into typed records.
// Records without a name are dropped with a warning rather than failing the
// chunk. Confidence values outside [0,1] or non-numeric are defaulted.
func ParseCharacters(raw string, logger *slog.Logger) ([]types.Character, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var wire []prompts.ExtractedCharacter
	if err := decode(raw, &wire); err != nil {
		// Some models wrap the array in an object; retry with an envelope.
		// A present but empty characters array is a valid answer, so only
		// a missing key falls through to the original error.
		var envelope struct {
			Characters []prompts.ExtractedCharacter `json:"characters"`
		}
		if err2 := decode(raw, &envelope); err2 != nil || envelope.Characters == nil {
			return nil, err
		}
		wire = envelope.Characters
	}

	characters := make([]types.Character, 0, len(wire))
	for _, w := range wire {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			logger.Warn("dropping character with empty name")
			continue
		}
		c := types.Character{
			Name:         name,
			Aliases:      coerceAliases(w.Aliases, name),
			Role:         types.NormalizeRole(w.Role),
			Confidence:   coerceConfidence(w.Confidence),
			FirstMention: strings.TrimSpace(w.FirstMention),
		}
		characters = append(characters, c)
	}
	return characters, nil
}

// ParseRelationships parses a relationship analysis response. known, when
// non-nil, is the set of acceptable endpoint names (canonical names and
// aliases, any case); relationships referencing unknown characters are
// dropped with a warning, not a hard failure.
func ParseRelationships(raw string, known map[string]struct{}, logger *slog.Logger) ([]types.Relationship, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var envelope prompts.RelationshipsEnvelope
	if err := decode(raw, &envelope); err != nil {
		// Tolerate a bare array of relationship objects.
		var bare []prompts.ExtractedRelationship
		if err2 := decode(raw, &bare); err2 != nil {
			return nil, err
		}
		envelope.Relationships = bare
	}

	relationships := make([]types.Relationship, 0, len(envelope.Relationships))
	for _, w := range envelope.Relationships {
		r := types.Relationship{
			Character1:  strings.TrimSpace(w.Character1),
			Character2:  strings.TrimSpace(w.Character2),
			Type:        normalizeRelationType(w.Type),
			Strength:    coerceStrength(w.Strength),
			Description: strings.TrimSpace(w.Description),
			KeyScenes:   w.KeyScenes,
		}
		if err := r.Validate(known); err != nil {
			logger.Warn("dropping invalid relationship",
				"character1", r.Character1,
				"character2", r.Character2,
				"reason", err,
			)
			continue
		}
		relationships = append(relationships, r)
	}
	return relationships, nil
}

// ParseTraits parses a trait extraction response for a single character.
func ParseTraits(raw string, characterName string) (*types.TraitProfile, error) {
	var wire prompts.ExtractedTraits
	if err := decode(raw, &wire); err != nil {
		return nil, err
	}

	profile := &types.TraitProfile{
		Name:                strings.TrimSpace(wire.Name),
		PhysicalDescription: strings.TrimSpace(wire.PhysicalDescription),
		Personality:         wire.Personality,
		Motivations:         wire.Motivations,
		KeyActions:          wire.KeyActions,
		CharacterArc:        strings.TrimSpace(wire.CharacterArc),
		Relationships:       wire.Relationships,
	}
	if profile.Name == "" {
		profile.Name = characterName
	}
	return profile, nil
}

// coerceConfidence clamps a raw confidence into [0,1], defaulting when the
// value is missing or non-numeric.
func coerceConfidence(raw json.RawMessage) float64 {
	v, ok := rawToFloat(raw)
	if !ok {
		return DefaultConfidence
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// coerceStrength clamps a raw strength into [1,10], defaulting when the
// value is missing or non-numeric.
func coerceStrength(raw json.RawMessage) float64 {
	v, ok := rawToFloat(raw)
	if !ok {
		return DefaultStrength
	}
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// rawToFloat accepts numbers and numeric strings.
func rawToFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// coerceAliases accepts an array of strings or a single string, drops empty
// entries and any alias equal to the canonical name, and returns the result
// sorted for deterministic output.
func coerceAliases(raw json.RawMessage, name string) []string {
	var values []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &values); err != nil {
			var single string
			if err := json.Unmarshal(raw, &single); err == nil && single != "" {
				values = []string{single}
			}
		}
	}

	seen := make(map[string]struct{}, len(values))
	aliases := make([]string, 0, len(values))
	for _, a := range values {
		a = strings.TrimSpace(a)
		if a == "" || strings.EqualFold(a, name) {
			continue
		}
		key := strings.ToLower(a)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	if len(aliases) == 0 {
		return nil
	}
	return aliases
}

// normalizeRelationType lowercases the label and defaults empties to unknown.
func normalizeRelationType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}
