package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CodeInvalidSMILES, "failed to parse molecule")
	assert.Equal(t, "[MOL_001] failed to parse molecule", err.Error())

	withDetail := err.WithDetail("unclosed ring bond")
	assert.Equal(t, "[MOL_001] failed to parse molecule: unclosed ring bond", withDetail.Error())
	// WithDetail copies; the original is untouched.
	assert.Empty(t, err.Detail)
}

func TestWrapPreservesChain(t *testing.T) {
	cause := stderrors.New("underlying failure")
	err := Wrap(cause, CodeRenderFailed, "image generation failed")

	require.NotNil(t, err)
	assert.Equal(t, CodeRenderFailed, err.Code)
	assert.True(t, stderrors.Is(err, cause))

	var ae *AppError
	assert.True(t, stderrors.As(err, &ae))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "should vanish"))
}

func TestWrapUnknownKeepsOriginalCode(t *testing.T) {
	inner := New(CodeThresholdInvalid, "threshold out of range")
	outer := Wrap(inner, CodeUnknown, "similarity search failed")
	assert.Equal(t, CodeThresholdInvalid, outer.Code)
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeInvalidSMILES, GetCode(InvalidInput("bad notation")))

	wrapped := Wrap(InvalidInput("bad notation"), CodeRenderFailed, "render")
	assert.Equal(t, CodeRenderFailed, GetCode(wrapped))
	assert.True(t, IsCode(wrapped, CodeInvalidSMILES))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForCode(CodeInvalidSMILES))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForCode(CodeThresholdInvalid))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(CodeRenderFailed))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("nonexistent")))

	assert.True(t, IsClientError(CodeFingerprintUnsupported))
	assert.True(t, IsServerError(CodeEmbeddingFailed))
}

func TestNewCapturesStack(t *testing.T) {
	err := New(CodeInternal, "boom")
	assert.NotEmpty(t, err.Stack)
	// Stack stays out of the user-facing message.
	assert.NotContains(t, err.Error(), err.Stack)
}
