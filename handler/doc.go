// Package handler provides type-safe HTTP request handling for JSON APIs.
//
// Handlers are generic functions which receive a bound request struct and return a
// Response. Wrap adapts them to http.HandlerFunc, running the configured binders
// first and routing every failure to a single ErrorHandler:
//
//	type loginRequest struct {
//		Email    string `json:"email"`
//		Password string `json:"password"`
//	}
//
//	func (s *Service) login(ctx handler.Context, req loginRequest) handler.Response {
//		session, err := s.manager.Login(ctx, req.Email, req.Password)
//		if err != nil {
//			return handler.Fail(err)
//		}
//		return handler.JSON(session)
//	}
//
// # Responses
//
// JSON and JSONError render the envelope
//
//	{"data": ..., "meta": {...}, "error": {"code": "...", "message": "...", "details": {...}}}
//
// Empty, EmptyWithStatus, Redirect and RedirectWithCode cover bodiless answers.
//
// # Errors
//
// HTTPError pairs a status code with a stable code string. NewErrorHandler accepts
// ErrorMapper functions that turn domain errors into HTTPError values; validation
// errors from pkg/validator are reported per field in "details", and binder errors
// become 4xx responses. Any other error is answered with a generic 500 whose text is
// never sent to the client.
package handler
