package dramatis

import (
	"context"

	"github.com/storygraph/dramatis/pkg/types"
)

// CharacterExtractor extracts a deduplicated cast of characters from text.
type CharacterExtractor interface {
	ExtractCharacters(ctx context.Context, text string) (*types.ExtractionResult, error)
}

// RelationshipAnalyzer scores pairwise relationships between known
// characters.
type RelationshipAnalyzer interface {
	AnalyzeRelationships(ctx context.Context, text string, characters []types.Character) (*types.RelationshipResult, error)
}

// TraitExtractor builds a detailed trait profile for a single character.
type TraitExtractor interface {
	ExtractTraits(ctx context.Context, text string, characterName string) (*types.TraitProfile, error)
}

// Comparer measures agreement between two character name lists, typically an
// LLM-extracted cast against a traditional NER baseline.
type Comparer interface {
	Compare(traditional, extracted []string) *ComparisonResult
}

// Dramatis is the full analysis interface implemented by Analyzer.
type Dramatis interface {
	CharacterExtractor
	RelationshipAnalyzer
	TraitExtractor
	Comparer

	// Close releases the underlying LLM client.
	Close() error
}
