package binder

import (
	"errors"
	"strings"
)

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrRequestTooLarge      = errors.New("request body too large")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrFailedToParseQuery   = errors.New("failed to parse query parameters")
	ErrFailedToParsePath    = errors.New("failed to parse path parameters")

	// ErrBinderNotApplicable tells the caller to skip this binder for the request.
	ErrBinderNotApplicable = errors.New("binder not applicable")
)

// IsBindError reports whether err came from one of the binders in this package.
func IsBindError(err error) bool {
	return errors.Is(err, ErrUnsupportedMediaType) ||
		errors.Is(err, ErrMissingContentType) ||
		errors.Is(err, ErrRequestTooLarge) ||
		errors.Is(err, ErrFailedToParseJSON) ||
		errors.Is(err, ErrFailedToParseQuery) ||
		errors.Is(err, ErrFailedToParsePath)
}

// Reason returns a client-safe description of a binding error, capitalized for display.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
