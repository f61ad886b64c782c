package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractionResultHelpers(t *testing.T) {
	var nilResult *ExtractionResult
	assert.Equal(t, 0, nilResult.CharacterCount())
	assert.Nil(t, nilResult.Names())
	assert.True(t, nilResult.IsEmpty())

	empty := &ExtractionResult{}
	assert.Equal(t, 0, empty.CharacterCount())
	assert.True(t, empty.IsEmpty())

	result := &ExtractionResult{
		Characters: []Character{
			{Name: "Hari Seldon", Role: RoleProtagonist},
			{Name: "Gaal Dornick", Role: RoleSupporting},
		},
	}
	assert.Equal(t, 2, result.CharacterCount())
	assert.Equal(t, []string{"Hari Seldon", "Gaal Dornick"}, result.Names())
	assert.False(t, result.IsEmpty())
}

func TestRelationshipResultCount(t *testing.T) {
	var nilResult *RelationshipResult
	assert.Equal(t, 0, nilResult.RelationshipCount())

	result := &RelationshipResult{
		Relationships: []Relationship{
			{Character1: "Hari Seldon", Character2: "Gaal Dornick", Type: "mentor", Strength: 8},
		},
	}
	assert.Equal(t, 1, result.RelationshipCount())
}
