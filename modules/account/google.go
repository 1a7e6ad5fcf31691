package account

import (
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/expensekit/handler"
	"github.com/dmitrymomot/expensekit/pkg/binder"
)

// GoogleService exchanges a Google assertion (ID token or authorization code) for a
// session.
type GoogleService struct {
	credentials  Credentials
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewGoogleService(credentials Credentials, errorHandler handler.ErrorHandler[handler.Context]) *GoogleService {
	return &GoogleService{credentials: credentials, errorHandler: withDefault(errorHandler)}
}

func (s *GoogleService) Routes(r chi.Router) {
	r.Post("/google", handler.Wrap(s.login,
		handler.WithBinder[handler.Context, GoogleLoginRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, GoogleLoginRequest](s.errorHandler),
	))
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}

func (s *GoogleService) login(ctx handler.Context, req GoogleLoginRequest) handler.Response {
	session, err := s.credentials.FederatedLogin(ctx, req.IDToken)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(newSession(session))
}
