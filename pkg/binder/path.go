package binder

import (
	"fmt"
	"net/http"
)

// Path creates a path parameter binder using extractor, typically chi.URLParam.
// Fields are bound by their `path:"name"` tag with the same type support as Query.
//
// Example:
//
//	r.Put("/{id}", handler.Wrap(s.update,
//		handler.WithBinders[handler.Context, updateRequest](
//			binder.Path(chi.URLParam),
//			binder.JSON(),
//		),
//	))
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}
		return bindToStruct(v, "path", func(name string) []string {
			if value := extractor(r, name); value != "" {
				return []string{value}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}
