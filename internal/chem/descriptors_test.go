package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aspirinSMILES = "CC(=O)Oc1ccccc1C(=O)O"

func TestDescriptorsEthanol(t *testing.T) {
	m, err := ParseSmiles("CCO")
	require.NoError(t, err)
	d := ComputeDescriptors(m)

	assert.Equal(t, "C2H6O", d.Formula)
	assert.InDelta(t, 46.07, d.MolWeight, 0.01)
	assert.Equal(t, 3, d.AtomCount)
	assert.Equal(t, 2, d.BondCount)
	assert.Equal(t, 0, d.RingCount)
	assert.Equal(t, 0, d.AromaticRings)
	assert.Equal(t, 1, d.HBondDonors)
	assert.Equal(t, 1, d.HBondAcceptors)
	assert.InDelta(t, 20.23, d.TPSA, 0.01)
}

func TestDescriptorsAspirin(t *testing.T) {
	m, err := ParseSmiles(aspirinSMILES)
	require.NoError(t, err)
	d := ComputeDescriptors(m)

	assert.Equal(t, "C9H8O4", d.Formula)
	assert.InDelta(t, 180.16, d.MolWeight, 0.05)
	assert.Equal(t, 13, d.AtomCount)
	assert.Equal(t, 13, d.BondCount)
	assert.Equal(t, 1, d.RingCount)
	assert.Equal(t, 1, d.AromaticRings)
	assert.Equal(t, 3, d.RotatableBonds)
	assert.Equal(t, 1, d.HBondDonors)
	assert.Equal(t, 4, d.HBondAcceptors)
	assert.InDelta(t, 63.60, d.TPSA, 0.05)
	assert.Less(t, d.LogP, 5.0)
}

func TestHillFormulaOrdering(t *testing.T) {
	m, err := ParseSmiles("ClCCl")
	require.NoError(t, err)
	assert.Equal(t, "CH2Cl2", MolecularFormula(m))

	// No carbon: strictly alphabetical.
	m, err = ParseSmiles("O=S=O")
	require.NoError(t, err)
	assert.Equal(t, "O2S", MolecularFormula(m))
}

func TestRotatableBondsExcludeRingsAndTerminals(t *testing.T) {
	m, err := ParseSmiles("C1CCCCC1")
	require.NoError(t, err)
	assert.Equal(t, 0, RotatableBondCount(m))

	m, err = ParseSmiles("CCC")
	require.NoError(t, err)
	assert.Equal(t, 0, RotatableBondCount(m))

	m, err = ParseSmiles("CCCC")
	require.NoError(t, err)
	assert.Equal(t, 1, RotatableBondCount(m))
}

func TestRingCountFusedSystem(t *testing.T) {
	m, err := ParseSmiles("c1ccc2ccccc2c1")
	require.NoError(t, err)
	assert.Equal(t, 10, m.NumAtoms())
	assert.Equal(t, 2, m.RingCount())
}
