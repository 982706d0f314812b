package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeBadRequest      ErrorCode = "COMMON_002"
	ErrCodeTimeout         ErrorCode = "COMMON_009"
	ErrCodeSerialization   ErrorCode = "COMMON_011"
	ErrCodeRateLimited     ErrorCode = "COMMON_012"
	ErrCodeExternalService ErrorCode = "COMMON_014"
	ErrCodeRequestTooLarge ErrorCode = "COMMON_017"
)

// Claim intake error codes. These are the client validation class: their
// messages are shown to the uploader verbatim.
const (
	ErrCodeEmptyInput        ErrorCode = "CLAIM_001"
	ErrCodeUnsupportedFormat ErrorCode = "CLAIM_002"
	ErrCodeExtractionFailure ErrorCode = "CLAIM_003"
	ErrCodeNoTextExtracted   ErrorCode = "CLAIM_004"
)

// Collaborator error codes (OCR, rasterizer, entity recognizer, queue, events).
const (
	ErrCodeOCRFailed          ErrorCode = "OCR_001"
	ErrCodeOCRUnavailable     ErrorCode = "OCR_002"
	ErrCodeRasterizeFailed    ErrorCode = "OCR_003"
	ErrCodeNERFailed          ErrorCode = "NER_001"
	ErrCodeNERUnavailable     ErrorCode = "NER_002"
	ErrCodeQueueUnavailable   ErrorCode = "QUE_001"
	ErrCodeQueueCorrupt       ErrorCode = "QUE_002"
	ErrCodeEventPublishFailed ErrorCode = "EVT_001"
)

// Aliases kept short for call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// ErrorCodeHTTPStatus maps codes to the HTTP status a transport should use.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeTimeout:         http.StatusInternalServerError,
	ErrCodeSerialization:   http.StatusInternalServerError,
	ErrCodeExternalService: http.StatusInternalServerError,
	ErrCodeRequestTooLarge: http.StatusBadRequest,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	ErrCodeEmptyInput:        http.StatusBadRequest,
	ErrCodeUnsupportedFormat: http.StatusBadRequest,
	ErrCodeExtractionFailure: http.StatusBadRequest,
	ErrCodeNoTextExtracted:   http.StatusBadRequest,

	ErrCodeOCRFailed:          http.StatusInternalServerError,
	ErrCodeOCRUnavailable:     http.StatusInternalServerError,
	ErrCodeRasterizeFailed:    http.StatusInternalServerError,
	ErrCodeNERFailed:          http.StatusInternalServerError,
	ErrCodeNERUnavailable:     http.StatusInternalServerError,
	ErrCodeQueueUnavailable:   http.StatusInternalServerError,
	ErrCodeQueueCorrupt:       http.StatusInternalServerError,
	ErrCodeEventPublishFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage holds the default message for each code.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:        "Internal server error.",
	ErrCodeBadRequest:      "bad request",
	ErrCodeTimeout:         "operation timed out",
	ErrCodeSerialization:   "serialization error",
	ErrCodeExternalService: "external service error",
	ErrCodeRequestTooLarge: "Uploaded file is too large.",
	ErrCodeRateLimited:     "Too many requests.",

	ErrCodeEmptyInput:        "Uploaded file is empty.",
	ErrCodeUnsupportedFormat: "Unsupported file type.",
	ErrCodeExtractionFailure: "Error processing document.",
	ErrCodeNoTextExtracted:   "No text could be extracted from the document.",

	ErrCodeOCRFailed:          "OCR recognition failed",
	ErrCodeOCRUnavailable:     "OCR engine not available",
	ErrCodeRasterizeFailed:    "failed to render document page",
	ErrCodeNERFailed:          "entity recognition failed",
	ErrCodeNERUnavailable:     "entity recognizer not available",
	ErrCodeQueueUnavailable:   "review queue unavailable",
	ErrCodeQueueCorrupt:       "review queue entry is corrupt",
	ErrCodeEventPublishFailed: "failed to publish event",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientCode returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientCode(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerCode returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerCode(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
