package types

// ExtractionMetadata carries additional information about an analysis run.
type ExtractionMetadata struct {
	// Provider is the backend tag that produced the result.
	Provider string `json:"provider,omitempty"`

	// Model is the model identifier used for the run.
	Model string `json:"model,omitempty"`

	// ChunkCount is the number of chunks the input was split into.
	ChunkCount int `json:"chunk_count,omitempty"`

	// TotalTokens is the estimated token count processed, when available.
	TotalTokens int `json:"total_tokens,omitempty"`
}

// ChunkError records a per-chunk failure in a partial-success result.
type ChunkError struct {
	// Chunk is the zero-based index of the failed chunk.
	Chunk int `json:"chunk"`

	// Err is the failure description.
	Err string `json:"error"`
}

// ExtractionResult is the merged outcome of a character extraction run.
// It is created fresh per call and immutable once returned.
type ExtractionResult struct {
	Characters []Character         `json:"characters"`
	Failures   []ChunkError        `json:"failures,omitempty"`
	Metadata   *ExtractionMetadata `json:"metadata,omitempty"`
}

// CharacterCount returns the number of extracted characters.
func (r *ExtractionResult) CharacterCount() int {
	if r == nil {
		return 0
	}
	return len(r.Characters)
}

// Names returns the canonical character names in result order.
func (r *ExtractionResult) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Characters))
	for _, c := range r.Characters {
		names = append(names, c.Name)
	}
	return names
}

// IsEmpty returns true when no characters were extracted.
func (r *ExtractionResult) IsEmpty() bool {
	return r.CharacterCount() == 0
}

// RelationshipResult is the merged outcome of a relationship analysis run.
type RelationshipResult struct {
	Relationships []Relationship      `json:"relationships"`
	Failures      []ChunkError        `json:"failures,omitempty"`
	Metadata      *ExtractionMetadata `json:"metadata,omitempty"`
}

// RelationshipCount returns the number of extracted relationships.
func (r *RelationshipResult) RelationshipCount() int {
	if r == nil {
		return 0
	}
	return len(r.Relationships)
}

// TraitProfile holds detailed information about a single character.
type TraitProfile struct {
	Name                string              `json:"name"`
	PhysicalDescription string              `json:"physical_description,omitempty"`
	Personality         []string            `json:"personality,omitempty"`
	Motivations         []string            `json:"motivations,omitempty"`
	KeyActions          []string            `json:"key_actions,omitempty"`
	CharacterArc        string              `json:"character_arc,omitempty"`
	Relationships       map[string]string   `json:"relationships,omitempty"`
	Metadata            *ExtractionMetadata `json:"metadata,omitempty"`
}
