package handler

import "net/http"

// HTTPError carries the status code and the stable error code rendered in the JSON
// envelope. Message overrides the default status text; the cause, when attached with
// WithCause, stays reachable through errors.Is and errors.As.
type HTTPError struct {
	Code    int    // HTTP status code
	Key     string // machine-readable code, e.g. "not_found"
	Message string

	cause error
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Key
}

func (e HTTPError) Unwrap() error {
	return e.cause
}

// WithMessage returns a copy of e with a client-facing message.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// WithCause returns a copy of e wrapping err.
func (e HTTPError) WithCause(err error) HTTPError {
	e.cause = err
	return e
}

// NewHTTPError creates an HTTPError with the given status code and key.
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

// 4xx Client Errors
var (
	ErrBadRequest            = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized          = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrForbidden             = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound              = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed      = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrConflict              = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrRequestEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large"}
	ErrUnsupportedMediaType  = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type"}
	ErrUnprocessableEntity   = HTTPError{Code: http.StatusUnprocessableEntity, Key: "unprocessable_entity"}
	ErrTooManyRequests       = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}
)

// 5xx Server Errors
var (
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error"}
	ErrBadGateway          = HTTPError{Code: http.StatusBadGateway, Key: "bad_gateway"}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
	ErrGatewayTimeout      = HTTPError{Code: http.StatusGatewayTimeout, Key: "gateway_timeout"}
)
