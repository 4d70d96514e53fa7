package chem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMCSBenzenePhenol(t *testing.T) {
	mols := []*Mol{mustParse(t, "c1ccccc1"), mustParse(t, "Oc1ccccc1")}
	res := FindMCS(mols, time.Now().Add(10*time.Second))

	require.NotNil(t, res.Fragment)
	assert.False(t, res.TimedOut)
	assert.Equal(t, 6, res.AtomCount)
	assert.Equal(t, 6, res.BondCount)
	for i := range res.Fragment.Atoms {
		assert.True(t, res.Fragment.Atoms[i].Aromatic)
	}
	assert.Equal(t, "c1ccccc1", WriteCanonical(res.Fragment))
}

func TestFindMCSChain(t *testing.T) {
	mols := []*Mol{mustParse(t, "CCCO"), mustParse(t, "CCCN")}
	res := FindMCS(mols, time.Now().Add(10*time.Second))

	require.NotNil(t, res.Fragment)
	// The propyl backbone is common; the heteroatoms differ.
	assert.Equal(t, 3, res.AtomCount)
	assert.Equal(t, 2, res.BondCount)
}

func TestFindMCSThreeMolecules(t *testing.T) {
	mols := []*Mol{
		mustParse(t, "c1ccccc1CC"),
		mustParse(t, "c1ccccc1CO"),
		mustParse(t, "c1ccccc1C"),
	}
	res := FindMCS(mols, time.Now().Add(10*time.Second))
	require.NotNil(t, res.Fragment)
	assert.GreaterOrEqual(t, res.AtomCount, 7)
}

func TestFindMCSRequiresTwoMolecules(t *testing.T) {
	res := FindMCS([]*Mol{mustParse(t, "CCO")}, time.Now().Add(time.Second))
	assert.Nil(t, res.Fragment)
	assert.Equal(t, 0, res.AtomCount)
}

func TestFindMCSExpiredDeadlineStillReturns(t *testing.T) {
	mols := []*Mol{mustParse(t, "c1ccccc1"), mustParse(t, "Oc1ccccc1")}
	res := FindMCS(mols, time.Now().Add(-time.Second))
	assert.True(t, res.TimedOut)
}
