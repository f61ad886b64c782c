package types

import (
	"errors"
	"sort"
	"strings"
)

// Validation errors
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrSelfReference   = errors.New("relationship endpoints must differ")
	ErrUnknownEndpoint = errors.New("relationship references an unknown character")
)

// Role represents the role of a message in a chat exchange.
type Role string

// Message represents a single chat message sent to or received from a model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TokenUsage holds token accounting reported by a provider, when available.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response represents a raw completion returned by a provider.
type Response struct {
	Content      string      `json:"content"`
	Model        string      `json:"model,omitempty"`
	FinishReason string      `json:"finish_reason,omitempty"`
	TokensUsed   *TokenUsage `json:"tokens_used,omitempty"`
}

// CharacterRole classifies a character's narrative function.
type CharacterRole string

const (
	RoleProtagonist CharacterRole = "protagonist"
	RoleAntagonist  CharacterRole = "antagonist"
	RoleSupporting  CharacterRole = "supporting"
	RoleMinor       CharacterRole = "minor"
	RoleUnknown     CharacterRole = "unknown"
)

// rolePrecedence orders roles for deterministic conflict resolution during
// merges. Lower index wins when confidences tie.
var rolePrecedence = map[CharacterRole]int{
	RoleProtagonist: 0,
	RoleAntagonist:  1,
	RoleSupporting:  2,
	RoleMinor:       3,
	RoleUnknown:     4,
}

// NormalizeRole coerces provider-supplied free text into the closed role set.
// Unrecognized values map to RoleUnknown.
func NormalizeRole(s string) CharacterRole {
	switch CharacterRole(strings.ToLower(strings.TrimSpace(s))) {
	case RoleProtagonist:
		return RoleProtagonist
	case RoleAntagonist:
		return RoleAntagonist
	case RoleSupporting:
		return RoleSupporting
	case RoleMinor:
		return RoleMinor
	default:
		// Providers sometimes return compound labels like
		// "protagonist/narrator"; keep the first recognizable part.
		lower := strings.ToLower(s)
		for _, role := range []CharacterRole{RoleProtagonist, RoleAntagonist, RoleSupporting, RoleMinor} {
			if strings.Contains(lower, string(role)) {
				return role
			}
		}
		return RoleUnknown
	}
}

// RoleOutranks reports whether a takes precedence over b when two merged
// records disagree and carry equal confidence.
func RoleOutranks(a, b CharacterRole) bool {
	pa, ok := rolePrecedence[a]
	if !ok {
		pa = rolePrecedence[RoleUnknown]
	}
	pb, ok := rolePrecedence[b]
	if !ok {
		pb = rolePrecedence[RoleUnknown]
	}
	return pa < pb
}

// Character represents one detected person-entity in a text.
type Character struct {
	// Name is the canonical display form.
	Name string `json:"name"`

	// Aliases holds alternate surface forms that co-refer to this entity.
	// The canonical name itself is never repeated here.
	Aliases []string `json:"aliases,omitempty"`

	// Role classifies the character's narrative function.
	Role CharacterRole `json:"role"`

	// Confidence is the extraction certainty in [0, 1].
	Confidence float64 `json:"confidence"`

	// FirstMention is the context of the character's first appearance,
	// when the model reports one.
	FirstMention string `json:"first_mention,omitempty"`
}

// Validate checks the Character invariants.
func (c *Character) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// SurfaceForms returns the canonical name plus all aliases, lowercased,
// deduplicated, and sorted. Two characters co-refer when their surface-form
// sets intersect.
func (c *Character) SurfaceForms() []string {
	seen := make(map[string]struct{}, len(c.Aliases)+1)
	seen[strings.ToLower(strings.TrimSpace(c.Name))] = struct{}{}
	for _, a := range c.Aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			seen[a] = struct{}{}
		}
	}
	forms := make([]string, 0, len(seen))
	for f := range seen {
		forms = append(forms, f)
	}
	sort.Strings(forms)
	return forms
}

// Relationship represents an undirected association between two characters.
type Relationship struct {
	Character1 string `json:"character1"`
	Character2 string `json:"character2"`

	// Type is the relation label ("ally", "enemy", "family", "mentor",
	// "romantic", "unknown"). Merged records join distinct labels with "/".
	Type string `json:"type"`

	// Strength is the relation intensity on a 1-10 scale.
	Strength float64 `json:"strength"`

	// Description is a short free-text summary, when the model reports one.
	Description string `json:"description,omitempty"`

	// KeyScenes lists scenes in which the relationship is prominent.
	KeyScenes []string `json:"key_scenes,omitempty"`
}

// Validate checks the Relationship invariants against an optional set of
// known character names (lowercased). A nil set skips the membership check.
func (r *Relationship) Validate(known map[string]struct{}) error {
	c1 := strings.TrimSpace(r.Character1)
	c2 := strings.TrimSpace(r.Character2)
	if c1 == "" || c2 == "" {
		return ErrEmptyName
	}
	if strings.EqualFold(c1, c2) {
		return ErrSelfReference
	}
	if known != nil {
		if _, ok := known[strings.ToLower(c1)]; !ok {
			return ErrUnknownEndpoint
		}
		if _, ok := known[strings.ToLower(c2)]; !ok {
			return ErrUnknownEndpoint
		}
	}
	return nil
}

// PairKey returns the order-independent identity of the relationship's
// endpoints, used to deduplicate entries between the same unordered pair.
func (r *Relationship) PairKey() string {
	a := strings.ToLower(strings.TrimSpace(r.Character1))
	b := strings.ToLower(strings.TrimSpace(r.Character2))
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}
