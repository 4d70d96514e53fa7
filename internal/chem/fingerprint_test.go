package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, smiles string) *Mol {
	t.Helper()
	m, err := ParseSmiles(smiles)
	require.NoError(t, err)
	return m
}

func TestFingerprintWidthDependsOnlyOnKind(t *testing.T) {
	engine := NewEngine()
	molecules := []string{"CCO", "c1ccccc1", aspirinSMILES, "C"}

	for _, kind := range []FingerprintKind{FPKindMorgan, FPKindPath, FPKindAtomPair, FPKindTorsion} {
		for _, smiles := range molecules {
			fp, err := engine.Fingerprint(mustParse(t, smiles), kind)
			require.NoError(t, err)
			assert.Equal(t, 2048, fp.Size, "kind %d on %s", kind, smiles)
		}
	}
	for _, smiles := range molecules {
		fp, err := engine.Fingerprint(mustParse(t, smiles), FPKindMACCS)
		require.NoError(t, err)
		assert.Equal(t, 166, fp.Size)
	}
}

func TestTanimotoIdentity(t *testing.T) {
	a := MorganFingerprint(mustParse(t, "CCO"), 2, 2048)
	b := MorganFingerprint(mustParse(t, "OCC"), 2, 2048)
	score, err := Tanimoto(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestTanimotoSymmetric(t *testing.T) {
	a := MorganFingerprint(mustParse(t, "CCO"), 2, 2048)
	b := MorganFingerprint(mustParse(t, aspirinSMILES), 2, 2048)
	ab, err := Tanimoto(a, b)
	require.NoError(t, err)
	ba, err := Tanimoto(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestTanimotoDissimilarMolecules(t *testing.T) {
	a := MorganFingerprint(mustParse(t, "CCO"), 2, 2048)
	b := MorganFingerprint(mustParse(t, "CCCC"), 2, 2048)
	score, err := Tanimoto(a, b)
	require.NoError(t, err)
	assert.Less(t, score, 0.5)
	assert.Greater(t, score, 0.0)
}

func TestTanimotoWidthMismatch(t *testing.T) {
	a := MorganFingerprint(mustParse(t, "CCO"), 2, 2048)
	b := MACCSFingerprint(mustParse(t, "CCO"))
	_, err := Tanimoto(a, b)
	assert.Error(t, err)
}

func TestFingerprintDeterministic(t *testing.T) {
	for _, kind := range []FingerprintKind{FPKindMorgan, FPKindPath, FPKindAtomPair, FPKindTorsion, FPKindMACCS} {
		engine := NewEngine()
		a, err := engine.Fingerprint(mustParse(t, aspirinSMILES), kind)
		require.NoError(t, err)
		b, err := engine.Fingerprint(mustParse(t, aspirinSMILES), kind)
		require.NoError(t, err)
		assert.Equal(t, a.BitString(), b.BitString(), "kind %d", kind)
	}
}

func TestMACCSKeysReflectFeatures(t *testing.T) {
	benzene := MACCSFingerprint(mustParse(t, "c1ccccc1"))
	assert.True(t, benzene.Bit(110), "ring key should be set")
	assert.True(t, benzene.Bit(124), "aromatic ring key should be set")

	methane := MACCSFingerprint(mustParse(t, "C"))
	assert.False(t, methane.Bit(110))
	assert.Greater(t, benzene.OnBits(), 0)
}

func TestBitStringRoundTrip(t *testing.T) {
	fp := NewFingerprint(64)
	fp.SetBit(0)
	fp.SetBit(63)
	s := fp.BitString()
	assert.Len(t, s, 64)
	assert.Equal(t, byte('1'), s[0])
	assert.Equal(t, byte('1'), s[63])
	assert.Equal(t, 2, fp.OnBits())
}
