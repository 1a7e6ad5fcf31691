// Package requestid assigns every API request a correlation id.
//
// Middleware keeps a client supplied X-Request-ID when it is short and made of
// letters, digits, '-' and '_'; otherwise it generates a UUIDv7. The id is echoed
// in the response header, stored in the context (FromContext) and attached to
// log records through LoggerExtractor:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
//
// The JSON error envelope reports the same id in meta.request_id.
package requestid
