// Package binder turns HTTP request data into typed structs for handler.Wrap.
//
// Three binders are provided:
//
//   - JSON(): strict decoding of application/json bodies, capped at DefaultMaxJSONSize
//   - Query(): URL query parameters, bound by `query:"..."` tags
//   - Path(extractor): route parameters, bound by `path:"..."` tags
//
// Binders can be chained with handler.WithBinders. A binder that has nothing to read
// for a request returns ErrBinderNotApplicable and is skipped.
//
// # Error Handling
//
// Every failure wraps one of the package errors (ErrFailedToParseJSON,
// ErrUnsupportedMediaType, ErrRequestTooLarge, ...). IsBindError recognizes them so
// the JSON error envelope can answer with a 4xx status instead of a 500.
package binder
