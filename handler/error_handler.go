package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/expensekit/pkg/logger"
)

// ErrorMapper translates domain errors into HTTPError values. Errors it does not
// recognize should be returned unchanged.
type ErrorMapper func(error) error

// ErrorHandlerConfig configures the default error handler
type ErrorHandlerConfig struct {
	// Mappers run in order until one of them returns an HTTPError.
	Mappers []ErrorMapper
}

type failResponse struct {
	err error
}

func (f failResponse) Render(http.ResponseWriter, *http.Request) error {
	return f.err
}

// Fail hands err to the ErrorHandler configured for the route instead of rendering a
// response itself.
//
// Example:
//
//	session, err := s.manager.Login(ctx, req.Email, req.Password)
//	if err != nil {
//		return handler.Fail(err)
//	}
func Fail(err error) Response {
	return failResponse{err: err}
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

func mapError(mappers []ErrorMapper, err error) error {
	for _, m := range mappers {
		mapped := m(err)
		if _, ok := mapped.(HTTPError); ok {
			return mapped
		}
	}
	return err
}

// NewErrorHandler logs each failure (warn for 4xx, error for 5xx) and renders it
// in the JSON error envelope with the request id in meta. Build one in main and
// share it between modules so every route answers errors the same way.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		err = mapError(cfg.Mappers, err)

		detail, status := errorToDetail(err)
		requestID := ctx.RequestID()

		log.LogAttrs(r.Context(), determineLogLevel(status), "request error",
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		opts := []JSONOption{WithJSONStatus(status)}
		if requestID != "" {
			opts = append(opts, WithJSONMeta(map[string]any{"request_id": requestID}))
		}
		if renderErr := JSONError(detail, opts...).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response",
				logger.Error(renderErr),
				logger.Event("render_error"),
			)
		}
	}
}
