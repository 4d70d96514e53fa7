package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstructMatchCarbonyl(t *testing.T) {
	q, err := ParsePattern("C=O")
	require.NoError(t, err)

	matches := SubstructMatches(mustParse(t, aspirinSMILES), q)
	assert.Len(t, matches, 2, "aspirin has two carbonyls")
	for _, mch := range matches {
		assert.Len(t, mch, 2)
	}

	assert.False(t, HasSubstructMatch(mustParse(t, "CCO"), q))
}

func TestSubstructMatchAromaticRingDeduplicated(t *testing.T) {
	q, err := ParsePattern("c1ccccc1")
	require.NoError(t, err)
	// Twelve symmetry-equivalent embeddings collapse to one atom set.
	matches := SubstructMatches(mustParse(t, "c1ccccc1"), q)
	assert.Len(t, matches, 1)
}

func TestSubstructMatchKekulizedPatternHitsAromaticTarget(t *testing.T) {
	q, err := ParsePattern("C1=CC=CC=C1")
	require.NoError(t, err)
	assert.True(t, HasSubstructMatch(mustParse(t, "c1ccccc1"), q))
}

func TestSubstructMatchWildcardsAndAnyBond(t *testing.T) {
	q, err := ParsePattern("O~*")
	require.NoError(t, err)
	assert.True(t, HasSubstructMatch(mustParse(t, "C=O"), q))
	assert.True(t, HasSubstructMatch(mustParse(t, "CO"), q))
	assert.False(t, HasSubstructMatch(mustParse(t, "CC"), q))
}

func TestSubstructMatchHydrogenCountConstraint(t *testing.T) {
	q, err := ParsePattern("[OH]")
	require.NoError(t, err)
	assert.True(t, HasSubstructMatch(mustParse(t, "CCO"), q))
	// The ester oxygen carries no hydrogen.
	assert.False(t, HasSubstructMatch(mustParse(t, "COC"), q))
}

func TestParsePatternRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "c1ccc", "C((", "[Zz]"} {
		_, err := ParsePattern(bad)
		assert.Error(t, err, "pattern %q should not compile", bad)
	}
}

func TestPatternAromaticityConstraint(t *testing.T) {
	q, err := ParsePattern("c")
	require.NoError(t, err)
	assert.True(t, HasSubstructMatch(mustParse(t, "c1ccccc1"), q))
	assert.False(t, HasSubstructMatch(mustParse(t, "C1CCCCC1"), q))
}
