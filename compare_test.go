package dramatis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareOverlap(t *testing.T) {
	traditional := []string{"Hari Seldon", "Gaal Dornick", "Trantor"}
	extracted := []string{"hari seldon", "Gaal Dornick", "Salvor Hardin"}

	result := Compare(traditional, extracted)

	assert.ElementsMatch(t, []string{"Gaal Dornick", "hari seldon"}, result.Matched)
	assert.Equal(t, []string{"Trantor"}, result.TraditionalOnly)
	assert.Equal(t, []string{"Salvor Hardin"}, result.ExtractedOnly)
	assert.InDelta(t, 2.0/3.0, result.Precision, 1e-9)
	assert.InDelta(t, 2.0/3.0, result.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, result.F1, 1e-9)
	assert.InDelta(t, 2.0/4.0, result.Jaccard, 1e-9)
}

func TestCompareEmptyLists(t *testing.T) {
	result := Compare(nil, nil)
	assert.Empty(t, result.Matched)
	assert.Zero(t, result.Precision)
	assert.Zero(t, result.Recall)
	assert.Zero(t, result.F1)
	assert.Zero(t, result.Jaccard)
}

func TestCompareDuplicatesIgnored(t *testing.T) {
	result := Compare(
		[]string{"Seldon", "seldon", "SELDON"},
		[]string{"Seldon"},
	)
	assert.Len(t, result.Matched, 1)
	assert.Equal(t, 1.0, result.Precision)
	assert.Equal(t, 1.0, result.Recall)
	assert.Equal(t, 1.0, result.Jaccard)
}

func TestComparePerfectAgreement(t *testing.T) {
	names := []string{"A", "B", "C"}
	result := Compare(names, names)
	assert.Equal(t, 1.0, result.F1)
	assert.Empty(t, result.TraditionalOnly)
	assert.Empty(t, result.ExtractedOnly)
}
