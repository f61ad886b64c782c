package prompts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storygraph/dramatis/pkg/llm"
	"github.com/storygraph/dramatis/pkg/prompts"
)

func TestExtractCharactersDeterministic(t *testing.T) {
	a := prompts.ExtractCharacters("Hari Seldon arrived on Trantor.")
	b := prompts.ExtractCharacters("Hari Seldon arrived on Trantor.")
	assert.Equal(t, a, b)
}

func TestExtractCharactersShape(t *testing.T) {
	messages := prompts.ExtractCharacters("some text")
	require.Len(t, messages, 2)
	assert.Equal(t, llm.RoleSystem, messages[0].Role)
	assert.Equal(t, llm.RoleUser, messages[1].Role)

	user := messages[1].Content
	assert.Contains(t, user, "some text")
	assert.Contains(t, user, "JSON")
	// Core instructions: aliases, confidence, and role classification.
	assert.Contains(t, user, "aliases")
	assert.Contains(t, user, "confidence")
	assert.Contains(t, user, "protagonist")
}

func TestAnalyzeRelationshipsListsCharacters(t *testing.T) {
	messages := prompts.AnalyzeRelationships("text body", []string{"Hari Seldon", "Gaal Dornick"})
	require.Len(t, messages, 2)

	user := messages[1].Content
	assert.Contains(t, user, "Hari Seldon, Gaal Dornick")
	assert.Contains(t, user, "text body")
	assert.Contains(t, user, "strength")
}

func TestExtractTraitsNamesTheCharacter(t *testing.T) {
	messages := prompts.ExtractTraits("text body", "Salvor Hardin")
	require.Len(t, messages, 2)

	user := messages[1].Content
	assert.Contains(t, user, "Salvor Hardin")
	assert.Contains(t, user, "text body")
	assert.NotContains(t, user, "{{name}}")
}
