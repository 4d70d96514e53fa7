package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK           ErrorCode = "OK"
	CodeUnknown      ErrorCode = "COMMON_000"
	CodeInternal     ErrorCode = "COMMON_001"
	CodeInvalidParam ErrorCode = "COMMON_002"
	CodeNotFound     ErrorCode = "COMMON_003"
	CodeTimeout      ErrorCode = "COMMON_004"
	CodeValidation   ErrorCode = "COMMON_005"
)

// Molecule error codes.
const (
	CodeInvalidSMILES ErrorCode = "MOL_001"
	CodeEmptyInput    ErrorCode = "MOL_002"
	CodeEngineFailure ErrorCode = "MOL_003"
)

// Fingerprint error codes.
const (
	CodeFingerprintFailed      ErrorCode = "FP_001"
	CodeFingerprintUnsupported ErrorCode = "FP_002"
	CodeThresholdInvalid       ErrorCode = "FP_003"
)

// Pattern / substructure error codes.
const (
	CodeInvalidPattern ErrorCode = "PTN_001"
	CodeMatchFailed    ErrorCode = "PTN_002"
	CodeMCSFailed      ErrorCode = "PTN_003"
)

// Reaction error codes.
const (
	CodeInvalidReaction ErrorCode = "RXN_001"
	CodeReactionFailed  ErrorCode = "RXN_002"
)

// Conformer / 3D error codes.
const (
	CodeEmbeddingFailed ErrorCode = "CONF_001"
)

// Rendering error codes.
const (
	CodeRenderFailed ErrorCode = "RND_001"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes.
var errorCodeHTTPStatus = map[ErrorCode]int{
	CodeInternal:     http.StatusInternalServerError,
	CodeInvalidParam: http.StatusBadRequest,
	CodeNotFound:     http.StatusNotFound,
	CodeTimeout:      http.StatusGatewayTimeout,
	CodeValidation:   http.StatusUnprocessableEntity,

	CodeInvalidSMILES: http.StatusBadRequest,
	CodeEmptyInput:    http.StatusBadRequest,
	CodeEngineFailure: http.StatusInternalServerError,

	CodeFingerprintFailed:      http.StatusInternalServerError,
	CodeFingerprintUnsupported: http.StatusBadRequest,
	CodeThresholdInvalid:       http.StatusBadRequest,

	CodeInvalidPattern: http.StatusBadRequest,
	CodeMatchFailed:    http.StatusInternalServerError,
	CodeMCSFailed:      http.StatusInternalServerError,

	CodeInvalidReaction: http.StatusBadRequest,
	CodeReactionFailed:  http.StatusInternalServerError,

	CodeEmbeddingFailed: http.StatusInternalServerError,
	CodeRenderFailed:    http.StatusInternalServerError,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}
