package prompts

import (
	"github.com/storygraph/dramatis/pkg/types"
)

// systemPrompt frames every task. Kept identical across tasks so responses
// stay stylistically consistent between chunks.
const systemPrompt = `You are a literary analysis expert specializing in character analysis.`

const extractCharactersInstructions = `Analyze the following text and extract all character names.

Rules:
1. Only include actual characters (people/beings), not places, titles, or organizations.
   Common false positives to exclude: dialogue words mistaken for names ("Well", "Yes"),
   generic titles ("Master"), and place names ("Trantor").
2. Merge aliases and variations of the same character (e.g., "Hari" and "Hari Seldon" -> "Hari Seldon")
3. Exclude generic titles unless they refer to a specific unnamed character
4. Provide a confidence score (0-1) for each character

Return the results as a JSON array with this structure:
[
  {
    "name": "Character Name",
    "aliases": ["alias1", "alias2"],
    "confidence": 0.95,
    "role": "protagonist/antagonist/supporting/minor",
    "first_mention": "context of first appearance"
  }
]

Text to analyze:
`

const jsonOnlyFooter = `

Return only the JSON, no additional commentary.`

// ExtractCharacters builds the prompt for the character extraction task.
// Construction is pure: identical text yields byte-identical messages.
func ExtractCharacters(text string) []types.Message {
	return []types.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: extractCharactersInstructions + text + jsonOnlyFooter},
	}
}
