package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/expensekit/pkg/binder"
	"github.com/dmitrymomot/expensekit/pkg/validator"
)

// JSONResponse is the envelope of every API response. Successful responses
// fill Data, failed ones fill Error; Meta carries extras such as totals or the
// request id.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail is the public description of a failure. Details lists messages
// per input field for validation errors.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j *jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

type JSONOption func(*jsonResponse)

func WithJSONStatus(status int) JSONOption {
	return func(j *jsonResponse) { j.status = status }
}

// WithJSONMeta merges meta into the envelope's meta object.
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(j *jsonResponse) {
		if j.body.Meta == nil {
			j.body.Meta = make(map[string]any, len(meta))
		}
		for k, v := range meta {
			j.body.Meta[k] = v
		}
	}
}

// JSON answers 200 with v as data. A JSONResponse is sent as the whole
// envelope and an error is rendered as JSONError would.
func JSON(v any, opts ...JSONOption) Response {
	switch val := v.(type) {
	case error:
		return JSONError(val, opts...)
	case *ErrorDetail:
		return JSONError(val, opts...)
	}

	j := &jsonResponse{status: http.StatusOK}
	if env, ok := v.(JSONResponse); ok {
		j.body = env
	} else {
		j.body.Data = v
	}
	return j.apply(opts)
}

// JSONError renders err, an error or a prepared *ErrorDetail, in the error
// envelope. Errors that are not HTTPError, binder or validation errors become
// a bare 500.
func JSONError(err any, opts ...JSONOption) Response {
	j := &jsonResponse{status: http.StatusInternalServerError}
	switch e := err.(type) {
	case *ErrorDetail:
		j.body.Error = e
	case error:
		j.body.Error, j.status = errorToDetail(e)
	default:
		j.body.Error, j.status = errorToDetail(ErrInternalServerError)
	}
	return j.apply(opts)
}

func (j *jsonResponse) apply(opts []JSONOption) Response {
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// StatusOf reports the status code JSONError would use for err.
func StatusOf(err error) int {
	_, status := errorToDetail(err)
	return status
}

// errorToDetail never exposes the text of errors that are not HTTPError.
func errorToDetail(err error) (*ErrorDetail, int) {
	httpErr := classify(err)

	detail := &ErrorDetail{
		Code:    httpErr.Key,
		Message: httpErr.Message,
	}
	if detail.Message == "" {
		detail.Message = http.StatusText(httpErr.Code)
	}
	if verrs := validator.ExtractValidationErrors(err); len(verrs) > 0 {
		detail.Details = verrs.Map()
	}
	return detail, httpErr.Code
}

func classify(err error) HTTPError {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return ErrUnsupportedMediaType.WithMessage(binder.Reason(err))
	case errors.Is(err, binder.ErrRequestTooLarge):
		return ErrRequestEntityTooLarge
	case binder.IsBindError(err):
		return ErrBadRequest.WithMessage(binder.Reason(err))
	case validator.IsValidationError(err):
		return HTTPError{Code: http.StatusBadRequest, Key: "validation_error", Message: "Validation failed"}
	default:
		return ErrInternalServerError
	}
}
