package errors

import "net/http"

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInvalidInput     Code = "INVALID_INPUT"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidOperation Code = "INVALID_OPERATION"
	CodeInternal         Code = "INTERNAL"
)

// HTTPStatus maps an error code to the wire status. Ownership failures return
// 401 rather than 403, which is what the API has always done.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidInput, CodeInvalidOperation:
		return http.StatusBadRequest
	case CodeUnauthenticated, CodePermissionDenied:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
