package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReactionRejectsMalformed(t *testing.T) {
	for _, bad := range []string{
		"CCO",       // no separator
		"C>>",       // empty product side
		">>C",       // empty reactant side
		"C((>>C",    // unparseable reactant template
		"C>C",       // two-part arrow notation
	} {
		_, err := ParseReaction(bad)
		assert.Error(t, err, "reaction %q should not parse", bad)
	}
}

func TestReactionBondCleavage(t *testing.T) {
	rxn, err := ParseReaction("[C:1][O:2]>>[C:1].[O:2]")
	require.NoError(t, err)
	assert.Equal(t, 1, rxn.NumReactantTemplates())

	productSets := rxn.Run([]*Mol{mustParse(t, "CO")})
	require.Len(t, productSets, 1)
	assert.Equal(t, []string{"C", "O"}, productSets[0])
}

func TestReactionEsterHydrolysis(t *testing.T) {
	rxn, err := ParseReaction("[C:1](=[O:2])[O:3][C:4]>>[C:1](=[O:2])[OH].[O:3][C:4]")
	require.NoError(t, err)

	// Methyl acetate hydrolyzes to acetic acid and methanol.
	productSets := rxn.Run([]*Mol{mustParse(t, "CC(=O)OC")})
	require.Len(t, productSets, 1)
	assert.Equal(t, []string{"CC(=O)O", "CO"}, productSets[0])
}

func TestReactionNoMatchYieldsNoProducts(t *testing.T) {
	rxn, err := ParseReaction("[C:1][O:2]>>[C:1].[O:2]")
	require.NoError(t, err)
	assert.Empty(t, rxn.Run([]*Mol{mustParse(t, "CC")}))
}

func TestReactionArityMismatch(t *testing.T) {
	rxn, err := ParseReaction("[C:1][O:2]>>[C:1].[O:2]")
	require.NoError(t, err)
	assert.Empty(t, rxn.Run([]*Mol{mustParse(t, "CO"), mustParse(t, "CO")}))
}

func TestCleaveBondCapsWithDummies(t *testing.T) {
	m := mustParse(t, "CCO")
	bonds := CleavableBonds(m)
	require.Len(t, bonds, 2)

	frags := CleaveBond(m, bonds[0])
	require.Len(t, frags, 2)
	for _, f := range frags {
		assert.Contains(t, f, "*")
	}
	// The original molecule is untouched.
	assert.Equal(t, 3, m.NumAtoms())
	assert.Equal(t, 2, m.NumBonds())
}

func TestCleavableBondsExcludeRings(t *testing.T) {
	assert.Empty(t, CleavableBonds(mustParse(t, "C1CCCCC1")))
	assert.Empty(t, CleavableBonds(mustParse(t, "c1ccccc1")))
	assert.Len(t, CleavableBonds(mustParse(t, "CCCC")), 3)
}