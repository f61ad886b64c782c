package prompts

import (
	"strings"

	"github.com/storygraph/dramatis/pkg/types"
)

const extractTraitsTemplate = `Analyze the character "{{name}}" in the following text.

Provide:
1. Physical description (if mentioned)
2. Personality traits
3. Motivations and goals
4. Key actions and decisions
5. Character arc/development
6. Relationships with other characters

Return as JSON:
{
  "name": "{{name}}",
  "physical_description": "...",
  "personality": ["trait1", "trait2"],
  "motivations": ["goal1", "goal2"],
  "key_actions": ["action1", "action2"],
  "character_arc": "description of development",
  "relationships": {"character": "relationship type"}
}

Text:
`

// ExtractTraits builds the prompt for the single-character trait task.
func ExtractTraits(text string, characterName string) []types.Message {
	body := strings.ReplaceAll(extractTraitsTemplate, "{{name}}", characterName)
	return []types.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: body + text + jsonOnlyFooter},
	}
}
