package prompts

import (
	"strings"

	"github.com/storygraph/dramatis/pkg/types"
)

const analyzeRelationshipsHeader = `Analyze the relationships between these characters in the text:
`

const analyzeRelationshipsInstructions = `

For each pair of characters that interact, provide:
1. Nature of relationship (ally, enemy, family, mentor, romantic, unknown)
2. Strength of relationship (1-10)
3. Key interactions or scenes

Only report relationships between characters from the list above.

Return as JSON:
{
  "relationships": [
    {
      "character1": "Name1",
      "character2": "Name2",
      "type": "relationship type",
      "strength": 8,
      "description": "brief description",
      "key_scenes": ["scene1", "scene2"]
    }
  ]
}

Text to analyze:
`

// AnalyzeRelationships builds the prompt for the relationship analysis task.
// Candidate character names are joined in the order given, so identical
// (text, characters) pairs yield byte-identical messages.
func AnalyzeRelationships(text string, characters []string) []types.Message {
	var b strings.Builder
	b.WriteString(analyzeRelationshipsHeader)
	b.WriteString(strings.Join(characters, ", "))
	b.WriteString(analyzeRelationshipsInstructions)
	b.WriteString(text)
	b.WriteString(jsonOnlyFooter)

	return []types.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}
