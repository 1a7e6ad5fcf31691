package handler

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/expensekit/pkg/requestid"
)

// Context is the request context handed to every handler. It carries the
// request's cancellation and values, so it can be passed straight to services.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	RequestID() string
}

func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &httpContext{Context: r.Context(), w: w, r: r}
}

type httpContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

func (c *httpContext) Request() *http.Request              { return c.r }
func (c *httpContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *httpContext) RequestID() string                   { return requestid.FromContext(c.Context) }

// ContextValue returns the value stored under key, or the zero T when it is
// missing or of another type.
func ContextValue[T any](ctx context.Context, key any) T {
	v, _ := ctx.Value(key).(T)
	return v
}
