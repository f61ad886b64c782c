package prompts

import "encoding/json"

// ExtractedCharacter is the wire shape the character extraction prompt asks
// the model to return. Fields that vendors frequently mistype (confidence as
// a string, aliases as a single value) are declared as RawMessage and coerced
// by the parser.
type ExtractedCharacter struct {
	Name         string          `json:"name"`
	Aliases      json.RawMessage `json:"aliases,omitempty"`
	Confidence   json.RawMessage `json:"confidence,omitempty"`
	Role         string          `json:"role,omitempty"`
	FirstMention string          `json:"first_mention,omitempty"`
}

// ExtractedRelationship is the wire shape of one relationship entry.
type ExtractedRelationship struct {
	Character1  string          `json:"character1"`
	Character2  string          `json:"character2"`
	Type        string          `json:"type,omitempty"`
	Strength    json.RawMessage `json:"strength,omitempty"`
	Description string          `json:"description,omitempty"`
	KeyScenes   []string        `json:"key_scenes,omitempty"`
}

// RelationshipsEnvelope is the top-level object the relationship prompt asks
// the model to return.
type RelationshipsEnvelope struct {
	Relationships []ExtractedRelationship `json:"relationships"`
}

// ExtractedTraits is the wire shape of the trait extraction response.
type ExtractedTraits struct {
	Name                string            `json:"name"`
	PhysicalDescription string            `json:"physical_description,omitempty"`
	Personality         []string          `json:"personality,omitempty"`
	Motivations         []string          `json:"motivations,omitempty"`
	KeyActions          []string          `json:"key_actions,omitempty"`
	CharacterArc        string            `json:"character_arc,omitempty"`
	Relationships       map[string]string `json:"relationships,omitempty"`
}
