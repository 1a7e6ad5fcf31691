package binder

import "net/http"

// Query creates a query parameter binder function.
//
// Fields are bound by their `query:"name"` tag; untagged fields and `query:"-"` are
// skipped. Supported types are strings, numbers, bools, slices of those, pointers for
// optional values, and any encoding.TextUnmarshaler such as uuid.UUID.
//
// Example:
//
//	type listRequest struct {
//		Month int `query:"month"`
//		Year  int `query:"year"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		q := r.URL.Query()
		return bindToStruct(v, "query", func(name string) []string {
			return q[name]
		}, ErrFailedToParseQuery)
	}
}
