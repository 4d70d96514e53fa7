package chem

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47}

func TestRenderPNGProducesImage(t *testing.T) {
	for _, smiles := range []string{"CCO", "c1ccccc1", aspirinSMILES, "C"} {
		png, err := RenderPNG(mustParse(t, smiles), 300, 200)
		require.NoError(t, err, smiles)
		assert.True(t, bytes.HasPrefix(png, pngMagic), "output for %s must be a PNG", smiles)
	}
}

func TestRenderPNGDeterministic(t *testing.T) {
	a, err := RenderPNG(mustParse(t, aspirinSMILES), 256, 256)
	require.NoError(t, err)
	b, err := RenderPNG(mustParse(t, aspirinSMILES), 256, 256)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderPNGEmptyMolecule(t *testing.T) {
	_, err := RenderPNG(NewMol(), 100, 100)
	assert.Error(t, err)
}

func TestLayout2DPlacesAllAtoms(t *testing.T) {
	m := mustParse(t, aspirinSMILES)
	layout := Layout2D(m)
	require.Len(t, layout, m.NumAtoms())
	// Bonded atoms end up roughly a bond length apart.
	for _, b := range m.Bonds {
		dx := layout[b.From][0] - layout[b.To][0]
		dy := layout[b.From][1] - layout[b.To][1]
		dist := dx*dx + dy*dy
		assert.Greater(t, dist, 0.0, "atoms %d-%d overlap", b.From, b.To)
	}
}
