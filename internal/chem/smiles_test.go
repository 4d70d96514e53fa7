package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSmilesEthanol(t *testing.T) {
	m, err := ParseSmiles("CCO")
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumAtoms())
	assert.Equal(t, 2, m.NumBonds())
	assert.Equal(t, 3, m.TotalHCount(0))
	assert.Equal(t, 2, m.TotalHCount(1))
	assert.Equal(t, 1, m.TotalHCount(2))
}

func TestParseSmilesBenzene(t *testing.T) {
	m, err := ParseSmiles("c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, 6, m.NumAtoms())
	assert.Equal(t, 6, m.NumBonds())
	for i := 0; i < 6; i++ {
		assert.True(t, m.Atoms[i].Aromatic)
		assert.Equal(t, 1, m.TotalHCount(i))
	}
	assert.Equal(t, 1, m.RingCount())
	assert.Equal(t, 1, m.AromaticRingCount())
}

func TestParseSmilesBracketAtoms(t *testing.T) {
	m, err := ParseSmiles("[NH4+]")
	require.NoError(t, err)
	require.Equal(t, 1, m.NumAtoms())
	assert.Equal(t, 7, m.Atoms[0].AtomicNum)
	assert.Equal(t, 1, m.Atoms[0].Charge)
	assert.Equal(t, 4, m.TotalHCount(0))

	m, err = ParseSmiles("[13CH4]")
	require.NoError(t, err)
	assert.Equal(t, 13, m.Atoms[0].Isotope)
	assert.Equal(t, 4, m.TotalHCount(0))
}

func TestParseSmilesPyrrole(t *testing.T) {
	m, err := ParseSmiles("c1cc[nH]c1")
	require.NoError(t, err)
	assert.Equal(t, 5, m.NumAtoms())
	// The pyrrole nitrogen keeps its bracketed hydrogen.
	assert.Equal(t, 1, m.TotalHCount(3))
}

func TestParseSmilesFragments(t *testing.T) {
	m, err := ParseSmiles("CCO.CC")
	require.NoError(t, err)
	assert.Equal(t, 5, m.NumAtoms())
	assert.Len(t, m.Components(), 2)
}

func TestParseSmilesRejectsMalformed(t *testing.T) {
	for _, bad := range []string{
		"",
		"invalid((",
		"C(",
		"C1CC",       // unclosed ring bond
		"C(C)(C)(C)(C)C", // pentavalent carbon
		"cc",         // aromatic atoms outside a ring
		"C=",
		"[Xx]",
	} {
		_, err := ParseSmiles(bad)
		assert.Error(t, err, "input %q should not parse", bad)
	}
}

func TestParseSmilesRingClosureNumbering(t *testing.T) {
	m, err := ParseSmiles("C1CCCCC1")
	require.NoError(t, err)
	assert.Equal(t, 6, m.NumBonds())
	assert.Equal(t, 1, m.RingCount())

	m, err = ParseSmiles("C%10CCCCC%10")
	require.NoError(t, err)
	assert.Equal(t, 1, m.RingCount())
}

func TestCanonicalEthanol(t *testing.T) {
	m, err := ParseSmiles("CCO")
	require.NoError(t, err)
	assert.Equal(t, "CCO", WriteCanonical(m))

	// Equivalent input orderings converge on the same canonical form.
	m2, err := ParseSmiles("OCC")
	require.NoError(t, err)
	assert.Equal(t, "CCO", WriteCanonical(m2))
}

func TestCanonicalIdempotent(t *testing.T) {
	for _, smiles := range []string{
		"CCO",
		"c1ccccc1",
		"CC(=O)Oc1ccccc1C(=O)O",
		"CC(C)CC1=CC=C(C=C1)C(C)C(=O)O",
		"C1CCCCC1",
		"CCO.CC",
	} {
		m, err := ParseSmiles(smiles)
		require.NoError(t, err, smiles)
		canon := WriteCanonical(m)

		m2, err := ParseSmiles(canon)
		require.NoError(t, err, canon)
		assert.Equal(t, canon, WriteCanonical(m2), "canonical form of %q must be stable", smiles)
	}
}

func TestCanonicalFragmentsSorted(t *testing.T) {
	a, err := ParseSmiles("CC.CCO")
	require.NoError(t, err)
	b, err := ParseSmiles("CCO.CC")
	require.NoError(t, err)
	assert.Equal(t, WriteCanonical(a), WriteCanonical(b))
}

func TestCanonicalPreservesCharge(t *testing.T) {
	m, err := ParseSmiles("[O-]C")
	require.NoError(t, err)
	canon := WriteCanonical(m)
	assert.Contains(t, canon, "[O-]")
}
