package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		input string
		want  CharacterRole
	}{
		{"protagonist", RoleProtagonist},
		{"Protagonist", RoleProtagonist},
		{"  ANTAGONIST ", RoleAntagonist},
		{"supporting", RoleSupporting},
		{"minor", RoleMinor},
		{"Supporting Character", RoleSupporting},
		{"protagonist/narrator", RoleProtagonist},
		{"villain", RoleUnknown},
		{"", RoleUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRole(tt.input), "input %q", tt.input)
	}
}

func TestRoleOutranks(t *testing.T) {
	assert.True(t, RoleOutranks(RoleProtagonist, RoleAntagonist))
	assert.True(t, RoleOutranks(RoleAntagonist, RoleSupporting))
	assert.True(t, RoleOutranks(RoleMinor, RoleUnknown))
	assert.False(t, RoleOutranks(RoleUnknown, RoleMinor))
	assert.False(t, RoleOutranks(RoleProtagonist, RoleProtagonist))

	// Unrecognized labels rank as unknown.
	assert.True(t, RoleOutranks(RoleMinor, CharacterRole("narrator")))
}

func TestCharacterValidate(t *testing.T) {
	c := Character{Name: "Hari Seldon"}
	assert.NoError(t, c.Validate())

	c = Character{Name: "   "}
	assert.ErrorIs(t, c.Validate(), ErrEmptyName)
}

func TestCharacterSurfaceForms(t *testing.T) {
	c := Character{
		Name:    "Hari Seldon",
		Aliases: []string{"Raven", "hari seldon", "  ", "Raven"},
	}
	assert.Equal(t, []string{"hari seldon", "raven"}, c.SurfaceForms())
}

func TestRelationshipValidate(t *testing.T) {
	known := map[string]struct{}{
		"hari seldon":  {},
		"gaal dornick": {},
	}

	r := Relationship{Character1: "Hari Seldon", Character2: "Gaal Dornick"}
	assert.NoError(t, r.Validate(known))

	// Nil set skips the membership check.
	r = Relationship{Character1: "Anyone", Character2: "Else"}
	assert.NoError(t, r.Validate(nil))

	r = Relationship{Character1: "Hari Seldon", Character2: "Cleon"}
	assert.ErrorIs(t, r.Validate(known), ErrUnknownEndpoint)

	r = Relationship{Character1: "Hari Seldon", Character2: "hari seldon"}
	assert.ErrorIs(t, r.Validate(known), ErrSelfReference)

	r = Relationship{Character1: "", Character2: "Gaal Dornick"}
	assert.ErrorIs(t, r.Validate(known), ErrEmptyName)
}

func TestRelationshipPairKey(t *testing.T) {
	a := Relationship{Character1: "Hari Seldon", Character2: "Gaal Dornick"}
	b := Relationship{Character1: "gaal dornick", Character2: "HARI SELDON"}
	assert.Equal(t, a.PairKey(), b.PairKey())

	c := Relationship{Character1: "Hari Seldon", Character2: "Demerzel"}
	assert.NotEqual(t, a.PairKey(), c.PairKey())
}
