package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molcraft/molcraft/pkg/errors"
)

func TestParseFingerprintMethod(t *testing.T) {
	for _, m := range AllFingerprintMethods() {
		parsed, err := ParseFingerprintMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
		assert.True(t, m.IsValid())
	}

	_, err := ParseFingerprintMethod("bogus")
	require.Error(t, err)
	assert.Equal(t, errors.CodeFingerprintUnsupported, errors.GetCode(err))
	assert.False(t, FingerprintMethod("").IsValid())
}
