package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/expensekit/pkg/binder"
)

// ErrNilResponse is reported when a handler returns no Response.
var ErrNilResponse = errors.New("handler: nil response")

// HandlerFunc handles a request already bound into R.
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response writes itself to the client. A non-nil error is passed to the ErrorHandler.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind fills v from r. Returning binder.ErrBinderNotApplicable skips the binder.
type Bind func(r *http.Request, v any) error

type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc. Decorators listed first run first.
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

type WrapOption[C Context, R any] func(*pipeline[C, R])

type pipeline[C Context, R any] struct {
	binders    []Bind
	onError    ErrorHandler[C]
	newContext func(http.ResponseWriter, *http.Request) C
	decorators []Decorator[C, R]
}

// WithBinder replaces the binders with b.
func WithBinder[C Context, R any](b Bind) WrapOption[C, R] {
	return func(p *pipeline[C, R]) {
		if b != nil {
			p.binders = []Bind{b}
		}
	}
}

// WithBinders appends binders. They run in order, each filling in the same value:
//
//	r.Put("/{id}", handler.Wrap(s.update,
//		handler.WithBinders[handler.Context, UpdateRequest](binder.Path(chi.URLParam), binder.JSON()),
//	))
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(p *pipeline[C, R]) {
		p.binders = append(p.binders, binders...)
	}
}

func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(p *pipeline[C, R]) {
		if h != nil {
			p.onError = h
		}
	}
}

// WithContextFactory is required when C is not Context itself.
func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(p *pipeline[C, R]) {
		if f != nil {
			p.newContext = f
		}
	}
}

func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(p *pipeline[C, R]) {
		p.decorators = append(p.decorators, decorators...)
	}
}

func renderError[C Context](ctx C, err error) {
	_ = JSONError(err).Render(ctx.ResponseWriter(), ctx.Request())
}

func defaultContext[C Context](w http.ResponseWriter, r *http.Request) C {
	c, ok := NewContext(w, r).(C)
	if !ok {
		panic("handler: custom context type needs WithContextFactory")
	}
	return c
}

// Wrap turns h into an http.HandlerFunc: bind, call, render. Every failure
// along the way, a nil Response included, goes to the error handler, which
// defaults to rendering the JSON error envelope.
//
//	r.Post("/login", handler.Wrap(s.login,
//		handler.WithBinder[handler.Context, LoginRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, LoginRequest](errorHandler),
//	))
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	p := &pipeline[C, R]{
		onError:    renderError[C],
		newContext: defaultContext[C],
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := len(p.decorators) - 1; i >= 0; i-- {
		h = p.decorators[i](h)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := p.newContext(w, r)

		var req R
		if err := p.bind(r, &req); err != nil {
			p.onError(ctx, err)
			return
		}

		resp := h(ctx, req)
		if resp == nil {
			p.onError(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			p.onError(ctx, err)
		}
	}
}

func (p *pipeline[C, R]) bind(r *http.Request, req *R) error {
	for _, b := range p.binders {
		if err := b(r, req); err != nil && !errors.Is(err, binder.ErrBinderNotApplicable) {
			return err
		}
	}
	return nil
}
