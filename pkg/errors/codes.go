package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string identifier for a specific error condition.
// Codes are grouped by module prefix: COMMON (cross-cutting), LOC (locate
// tracking engine), UPS (upstream collaborator API).
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "COMMON_000"

	CodeInternal     ErrorCode = "COMMON_001"
	CodeInvalidParam ErrorCode = "COMMON_002"
	CodeNotFound     ErrorCode = "COMMON_003"
	CodeConflict     ErrorCode = "COMMON_004"
	CodeValidation   ErrorCode = "COMMON_005"
	CodeTimeout      ErrorCode = "COMMON_006"
	CodeCacheError   ErrorCode = "COMMON_007"
)

// Locate engine error codes.
const (
	CodeRecordNotFound       ErrorCode = "LOC_001"
	CodeCallTypeInvalid      ErrorCode = "LOC_002"
	CodeCalledAtInvalid      ErrorCode = "LOC_003"
	CodeBucketInvalid        ErrorCode = "LOC_004"
	CodeSelectionEmpty       ErrorCode = "LOC_005"
	CodeTagProfileIncomplete ErrorCode = "LOC_006"
	CodeNoWorkOrderNumbers   ErrorCode = "LOC_007"
	CodeBulkPartialFailure   ErrorCode = "LOC_008"
)

// Upstream collaborator API error codes.
const (
	CodeUpstreamUnavailable ErrorCode = "UPS_001"
	CodeUpstreamRejected    ErrorCode = "UPS_002"
	CodeUpstreamDecode      ErrorCode = "UPS_003"
)

// httpStatusByCode maps every ErrorCode to the HTTP status the interface layer
// should respond with.
var httpStatusByCode = map[ErrorCode]int{
	CodeInternal:     http.StatusInternalServerError,
	CodeInvalidParam: http.StatusBadRequest,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeValidation:   http.StatusUnprocessableEntity,
	CodeTimeout:      http.StatusGatewayTimeout,
	CodeCacheError:   http.StatusInternalServerError,

	CodeRecordNotFound:       http.StatusNotFound,
	CodeCallTypeInvalid:      http.StatusBadRequest,
	CodeCalledAtInvalid:      http.StatusBadRequest,
	CodeBucketInvalid:        http.StatusBadRequest,
	CodeSelectionEmpty:       http.StatusBadRequest,
	CodeTagProfileIncomplete: http.StatusUnprocessableEntity,
	CodeNoWorkOrderNumbers:   http.StatusUnprocessableEntity,
	// A partial bulk failure is reported with counts, not as a fatal error;
	// 207 keeps the aggregate payload distinguishable from full success.
	CodeBulkPartialFailure: http.StatusMultiStatus,

	CodeUpstreamUnavailable: http.StatusBadGateway,
	CodeUpstreamRejected:    http.StatusBadGateway,
	CodeUpstreamDecode:      http.StatusBadGateway,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode, defaulting
// to 500 for codes without an explicit mapping.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError returns true if the ErrorCode maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode ("COMMON", "LOC",
// "UPS"), used as a metric label.
func ModuleForCode(code ErrorCode) string {
	parts := strings.SplitN(string(code), "_", 2)
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
